package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/helpers"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/logger"
)

// LeaveFilters narrows department-wide listings. The date bounds apply to
// the record's start date; either bound may be nil.
type LeaveFilters struct {
	Status    models.LeaveStatus
	LeaveType models.LeaveType
	StartFrom *time.Time
	StartTo   *time.Time
}

// ILeaveRepository defines the interface for leave application storage
type ILeaveRepository interface {
	Create(ctx context.Context, leave *models.LeaveApplication) error
	GetByID(ctx context.Context, id int64) (*models.LeaveApplication, error)
	ListByStudent(ctx context.Context, studentUserID int64, page, size int, status models.LeaveStatus) ([]models.LeaveApplication, int64, error)
	ListPendingByDepartment(ctx context.Context, department models.Department, page, size int) ([]models.LeaveApplication, int64, error)
	ListByDepartment(ctx context.Context, department models.Department, page, size int, filters LeaveFilters) ([]models.LeaveApplication, int64, error)
	MarkReviewed(ctx context.Context, id int64, status models.LeaveStatus, reviewerID int64, reviewerName, comments string, reviewDate time.Time) (bool, error)
	CountByStudent(ctx context.Context, studentUserID int64) (models.StatusCounts, error)
	CountByDepartment(ctx context.Context, department models.Department) (models.StatusCounts, error)
	RecentByStudent(ctx context.Context, studentUserID int64, limit int) ([]models.LeaveApplication, error)
	OldestPendingByDepartment(ctx context.Context, department models.Department, limit int) ([]models.LeaveApplication, error)
}

// LeaveRepository handles leave application database operations
type LeaveRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// baseSelect joins the student account (live email/phone) and, when
// reviewed, the reviewer's faculty row (employee id).
func (r *LeaveRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"l.id", "l.student_user_id", "l.student_name", "l.roll_number", "l.department", "l.semester",
		"l.leave_type", "l.start_date", "l.end_date", "l.total_days", "l.reason",
		"l.contact_number", "l.emergency_contact", "l.status",
		"l.reviewed_by", "l.reviewer_name", "l.review_date", "l.comments", "l.applied_at",
		"COALESCE(su.email, '') AS student_email",
		"COALESCE(su.phone, '') AS student_phone",
		"COALESCE(fm.employee_id, '') AS reviewer_employee_id",
	).
		From("leave_applications l").
		Join("users su ON l.student_user_id = su.id").
		LeftJoin("faculty_members fm ON l.reviewed_by = fm.user_id")
}

func (r *LeaveRepository) scanLeave(row pgx.Row) (*models.LeaveApplication, error) {
	var leave models.LeaveApplication
	var contactNumber, emergencyContact sql.NullString
	err := row.Scan(
		&leave.ID, &leave.StudentUserID, &leave.StudentName, &leave.RollNumber, &leave.Department, &leave.Semester,
		&leave.LeaveType, &leave.StartDate, &leave.EndDate, &leave.TotalDays, &leave.Reason,
		&contactNumber, &emergencyContact, &leave.Status,
		&leave.ReviewedBy, &leave.ReviewerName, &leave.ReviewDate, &leave.Comments, &leave.AppliedAt,
		&leave.StudentEmail, &leave.StudentPhone, &leave.ReviewerEmployeeID,
	)
	if err != nil {
		return nil, err
	}
	leave.ContactNumber = contactNumber.String
	leave.EmergencyContact = emergencyContact.String
	return &leave, nil
}

// Create persists a new application with its documents, assigning the id
func (r *LeaveRepository) Create(ctx context.Context, leave *models.LeaveApplication) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sqlStr, args, err := r.sb.Insert("leave_applications").
		Columns(
			"student_user_id", "student_name", "roll_number", "department", "semester",
			"leave_type", "start_date", "end_date", "total_days", "reason",
			"contact_number", "emergency_contact", "status",
		).
		Values(
			leave.StudentUserID, leave.StudentName, leave.RollNumber, leave.Department, leave.Semester,
			leave.LeaveType, leave.StartDate, leave.EndDate, leave.TotalDays, leave.Reason,
			helpers.GetContentNullString(leave.ContactNumber),
			helpers.GetContentNullString(leave.EmergencyContact),
			leave.Status,
		).
		Suffix("RETURNING id, applied_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create leave query: %w", err)
	}

	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&leave.ID, &leave.AppliedAt); err != nil {
		return fmt.Errorf("error creating leave application: %w", err)
	}

	for i := range leave.Documents {
		doc := &leave.Documents[i]
		doc.LeaveID = leave.ID

		docSQL, docArgs, err := r.sb.Insert("leave_documents").
			Columns("leave_id", "file_name", "original_name", "mime_type", "size_bytes", "storage_path").
			Values(doc.LeaveID, doc.FileName, doc.OriginalName, doc.MimeType, doc.SizeBytes, doc.StoragePath).
			Suffix("RETURNING id, uploaded_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create document query: %w", err)
		}
		if err := tx.QueryRow(ctx, docSQL, docArgs...).Scan(&doc.ID, &doc.UploadedAt); err != nil {
			return fmt.Errorf("error creating leave document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().
		Int64("leaveID", leave.ID).
		Str("rollNumber", leave.RollNumber).
		Str("leaveType", string(leave.LeaveType)).
		Int("totalDays", leave.TotalDays).
		Msg("Leave application saved")
	return nil
}

// GetByID retrieves one application with its documents
func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*models.LeaveApplication, error) {
	sqlStr, args, err := r.baseSelect().
		Where(squirrel.Eq{"l.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get leave query: %w", err)
	}

	leave, err := r.scanLeave(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("error retrieving leave application: %w", err)
	}

	docs, err := r.getDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	leave.Documents = docs

	return leave, nil
}

func (r *LeaveRepository) getDocuments(ctx context.Context, leaveID int64) ([]models.LeaveDocument, error) {
	sqlStr, args, err := r.sb.Select("id", "leave_id", "file_name", "original_name", "mime_type", "size_bytes", "storage_path", "uploaded_at").
		From("leave_documents").
		Where(squirrel.Eq{"leave_id": leaveID}).
		OrderBy("uploaded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get documents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave documents: %w", err)
	}
	defer rows.Close()

	var docs []models.LeaveDocument
	for rows.Next() {
		var doc models.LeaveDocument
		if err := rows.Scan(&doc.ID, &doc.LeaveID, &doc.FileName, &doc.OriginalName, &doc.MimeType, &doc.SizeBytes, &doc.StoragePath, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// listWhere runs the count+page pattern shared by all listings
func (r *LeaveRepository) listWhere(ctx context.Context, cond squirrel.Sqlizer, orderBy string, page, size int) ([]models.LeaveApplication, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("leave_applications l").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count leaves query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave applications: %w", err)
	}
	if total == 0 {
		return []models.LeaveApplication{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sqlStr, args, err := r.baseSelect().
		Where(cond).
		OrderBy(orderBy).
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list leaves query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave applications: %w", err)
	}
	defer rows.Close()

	var leaves []models.LeaveApplication
	for rows.Next() {
		leave, err := r.scanLeave(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave row: %w", err)
		}
		leaves = append(leaves, *leave)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating leave rows: %w", err)
	}

	return leaves, total, nil
}

// ListByStudent returns a student's own applications, newest first
func (r *LeaveRepository) ListByStudent(ctx context.Context, studentUserID int64, page, size int, status models.LeaveStatus) ([]models.LeaveApplication, int64, error) {
	cond := squirrel.And{squirrel.Eq{"l.student_user_id": studentUserID}}
	if status != "" {
		cond = append(cond, squirrel.Eq{"l.status": status})
	}
	return r.listWhere(ctx, cond, "l.applied_at DESC", page, size)
}

// ListPendingByDepartment returns pending applications for one department,
// oldest first so the earliest applicant is reviewed first
func (r *LeaveRepository) ListPendingByDepartment(ctx context.Context, department models.Department, page, size int) ([]models.LeaveApplication, int64, error) {
	cond := squirrel.And{
		squirrel.Eq{"l.status": models.LeaveStatusPending},
		squirrel.Eq{"l.department": department},
	}
	return r.listWhere(ctx, cond, "l.applied_at ASC", page, size)
}

// ListByDepartment returns a department's applications with optional
// filters, newest first
func (r *LeaveRepository) ListByDepartment(ctx context.Context, department models.Department, page, size int, filters LeaveFilters) ([]models.LeaveApplication, int64, error) {
	cond := squirrel.And{squirrel.Eq{"l.department": department}}
	if filters.Status != "" {
		cond = append(cond, squirrel.Eq{"l.status": filters.Status})
	}
	if filters.LeaveType != "" {
		cond = append(cond, squirrel.Eq{"l.leave_type": filters.LeaveType})
	}
	if filters.StartFrom != nil {
		cond = append(cond, squirrel.GtOrEq{"l.start_date": *filters.StartFrom})
	}
	if filters.StartTo != nil {
		cond = append(cond, squirrel.LtOrEq{"l.start_date": *filters.StartTo})
	}
	return r.listWhere(ctx, cond, "l.applied_at DESC", page, size)
}

// MarkReviewed transitions a pending application to its terminal status.
// The status predicate makes the update conditional: a concurrent reviewer
// losing the race affects zero rows and the transition is reported false.
func (r *LeaveRepository) MarkReviewed(ctx context.Context, id int64, status models.LeaveStatus, reviewerID int64, reviewerName, comments string, reviewDate time.Time) (bool, error) {
	sqlStr, args, err := r.sb.Update("leave_applications").
		Set("status", status).
		Set("reviewed_by", reviewerID).
		Set("reviewer_name", reviewerName).
		Set("review_date", reviewDate).
		Set("comments", comments).
		Where(squirrel.Eq{"id": id, "status": models.LeaveStatusPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build review update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("error updating leave status: %w", err)
	}

	reviewed := tag.RowsAffected() > 0
	if reviewed {
		logger.Info().
			Int64("leaveID", id).
			Str("status", string(status)).
			Int64("reviewerID", reviewerID).
			Msg("Leave application reviewed")
	}
	return reviewed, nil
}

// countWhere aggregates the four status counts in one query
func (r *LeaveRepository) countWhere(ctx context.Context, cond squirrel.Sqlizer) (models.StatusCounts, error) {
	sqlStr, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'pending')",
		"COUNT(*) FILTER (WHERE status = 'approved')",
		"COUNT(*) FILTER (WHERE status = 'rejected')",
	).
		From("leave_applications").
		Where(cond).
		ToSql()
	if err != nil {
		return models.StatusCounts{}, fmt.Errorf("failed to build count stats query: %w", err)
	}

	var counts models.StatusCounts
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&counts.Total, &counts.Pending, &counts.Approved, &counts.Rejected)
	if err != nil {
		return models.StatusCounts{}, fmt.Errorf("failed to count leave applications: %w", err)
	}
	return counts, nil
}

// CountByStudent returns status counts restricted to one student
func (r *LeaveRepository) CountByStudent(ctx context.Context, studentUserID int64) (models.StatusCounts, error) {
	return r.countWhere(ctx, squirrel.Eq{"student_user_id": studentUserID})
}

// CountByDepartment returns status counts restricted to one department
func (r *LeaveRepository) CountByDepartment(ctx context.Context, department models.Department) (models.StatusCounts, error) {
	return r.countWhere(ctx, squirrel.Eq{"department": department})
}

// RecentByStudent returns the student's newest applications
func (r *LeaveRepository) RecentByStudent(ctx context.Context, studentUserID int64, limit int) ([]models.LeaveApplication, error) {
	leaves, _, err := r.listWhere(ctx, squirrel.Eq{"l.student_user_id": studentUserID}, "l.applied_at DESC", 1, limit)
	return leaves, err
}

// OldestPendingByDepartment returns the department's longest-waiting pending applications
func (r *LeaveRepository) OldestPendingByDepartment(ctx context.Context, department models.Department, limit int) ([]models.LeaveApplication, error) {
	cond := squirrel.And{
		squirrel.Eq{"l.status": models.LeaveStatusPending},
		squirrel.Eq{"l.department": department},
	}
	leaves, _, err := r.listWhere(ctx, cond, "l.applied_at ASC", 1, limit)
	return leaves, err
}

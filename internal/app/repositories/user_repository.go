package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/dberrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/logger"
)

// IUserRepository defines the interface for account database operations
type IUserRepository interface {
	CreateStudent(ctx context.Context, user *models.User, student *models.Student) error
	CreateFaculty(ctx context.Context, user *models.User, faculty *models.FacultyMember) error
	CreateAdmin(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	RollNumberExists(ctx context.Context, rollNumber string) (bool, error)
	EmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateProfile(ctx context.Context, userID int64, name, phone string) error
	UpdateSemester(ctx context.Context, userID int64, semester int) error
	ListStudents(ctx context.Context, page, size int, department models.Department, semester int) ([]models.User, int64, error)
	ListFaculty(ctx context.Context) ([]models.User, error)
}

// UserRepository handles account database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "u.id, u.name, u.email, u.password, u.role, u.department, u.phone, u.is_active, u.last_login_at, u.created_at, u.updated_at"

// createUser inserts the base account row inside a transaction and returns its id
func (r *UserRepository) createUser(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error) {
	sqlStr, args, err := r.sb.Insert("users").
		Columns("name", "email", "password", "role", "department", "phone", "is_active").
		Values(user.Name, strings.ToLower(user.Email), user.Password, user.Role, user.Department, user.Phone, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&id, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// CreateStudent creates the account row and its student variant atomically
func (r *UserRepository) CreateStudent(ctx context.Context, user *models.User, student *models.Student) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userID, err := r.createUser(ctx, tx, user)
	if err != nil {
		return err
	}

	sqlStr, args, err := r.sb.Insert("students").
		Columns("user_id", "roll_number", "semester").
		Values(userID, student.RollNumber, student.Semester).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&student.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_roll_number_key") {
			logger.Warn().Str("rollNumber", student.RollNumber).Msg("Attempted to register duplicate roll number")
			return apperrors.ErrRollNumberAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.ID = userID
	student.UserID = userID
	user.Student = student
	logger.Info().Int64("userID", userID).Str("rollNumber", student.RollNumber).Msg("Student account created")
	return nil
}

// CreateAdmin creates an account row with no role variant
func (r *UserRepository) CreateAdmin(ctx context.Context, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userID, err := r.createUser(ctx, tx, user)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.ID = userID
	logger.Info().Int64("userID", userID).Msg("Admin account created")
	return nil
}

// CreateFaculty creates the account row and its faculty variant atomically
func (r *UserRepository) CreateFaculty(ctx context.Context, user *models.User, faculty *models.FacultyMember) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userID, err := r.createUser(ctx, tx, user)
	if err != nil {
		return err
	}

	sqlStr, args, err := r.sb.Insert("faculty_members").
		Columns("user_id", "employee_id").
		Values(userID, faculty.EmployeeID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create faculty query: %w", err)
	}

	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&faculty.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "faculty_members_employee_id_key") {
			logger.Warn().Str("employeeID", faculty.EmployeeID).Msg("Attempted to register duplicate employee ID")
			return apperrors.ErrEmployeeIDAlreadyExists
		}
		return fmt.Errorf("error creating faculty member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.ID = userID
	faculty.UserID = userID
	user.Faculty = faculty
	logger.Info().Int64("userID", userID).Str("employeeID", faculty.EmployeeID).Msg("Faculty account created")
	return nil
}

// getUserWhere fetches one account with its variant row populated
func (r *UserRepository) getUserWhere(ctx context.Context, cond squirrel.Sqlizer) (*models.User, error) {
	sqlStr, args, err := r.sb.Select(
		userColumns,
		"s.id", "s.roll_number", "s.semester",
		"f.id", "f.employee_id",
	).
		From("users u").
		LeftJoin("students s ON s.user_id = u.id").
		LeftJoin("faculty_members f ON f.user_id = u.id").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	var user models.User
	var studentID, facultyID sql.NullInt64
	var rollNumber, employeeID sql.NullString
	var semester sql.NullInt32

	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.Department,
		&user.Phone, &user.IsActive, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
		&studentID, &rollNumber, &semester,
		&facultyID, &employeeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if studentID.Valid {
		user.Student = &models.Student{
			ID:         studentID.Int64,
			UserID:     user.ID,
			RollNumber: rollNumber.String,
			Semester:   int(semester.Int32),
		}
	}
	if facultyID.Valid {
		user.Faculty = &models.FacultyMember{
			ID:         facultyID.Int64,
			UserID:     user.ID,
			EmployeeID: employeeID.String,
		}
	}

	return &user, nil
}

// GetByID retrieves an account by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUserWhere(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail retrieves an account by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUserWhere(ctx, squirrel.Eq{"u.email": strings.ToLower(email)})
}

// existsWhere runs an EXISTS probe for the given table and condition
func (r *UserRepository) existsWhere(ctx context.Context, table string, cond squirrel.Sqlizer) (bool, error) {
	sqlStr, args, err := r.sb.Select("1").
		From(table).
		Where(cond).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking existence: %w", err)
	}
	return exists, nil
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.existsWhere(ctx, "users", squirrel.Eq{"email": strings.ToLower(email)})
}

// RollNumberExists checks whether a roll number is already registered
func (r *UserRepository) RollNumberExists(ctx context.Context, rollNumber string) (bool, error) {
	return r.existsWhere(ctx, "students", squirrel.Eq{"roll_number": rollNumber})
}

// EmployeeIDExists checks whether an employee id is already registered
func (r *UserRepository) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	return r.existsWhere(ctx, "faculty_members", squirrel.Eq{"employee_id": employeeID})
}

// UpdateLastLogin stamps the account's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sqlStr, args, err := r.sb.Update("users").
		Set("last_login_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// UpdateProfile updates mutable account fields. Empty values are skipped.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, name, phone string) error {
	update := r.sb.Update("users").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID})
	if name != "" {
		update = update.Set("name", name)
	}
	if phone != "" {
		update = update.Set("phone", phone)
	}

	sqlStr, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateSemester updates a student's semester
func (r *UserRepository) UpdateSemester(ctx context.Context, userID int64, semester int) error {
	sqlStr, args, err := r.sb.Update("students").
		Set("semester", semester).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update semester query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error updating semester: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListStudents returns student accounts sorted by name with optional
// department and semester filters
func (r *UserRepository) ListStudents(ctx context.Context, page, size int, department models.Department, semester int) ([]models.User, int64, error) {
	offset := uint64((page - 1) * size)

	cond := squirrel.And{squirrel.Eq{"u.role": models.RoleStudent}}
	if department != "" {
		cond = append(cond, squirrel.Eq{"u.department": department})
	}
	if semester > 0 {
		cond = append(cond, squirrel.Eq{"s.semester": semester})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("users u").
		Join("students s ON s.user_id = u.id").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}
	if total == 0 {
		return []models.User{}, 0, nil
	}

	sqlStr, args, err := r.sb.Select(
		userColumns, "s.id", "s.roll_number", "s.semester",
	).
		From("users u").
		Join("students s ON s.user_id = u.id").
		Where(cond).
		OrderBy("u.name ASC").
		Limit(uint64(size)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var student models.Student
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.Department,
			&user.Phone, &user.IsActive, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
			&student.ID, &student.RollNumber, &student.Semester,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan student row: %w", err)
		}
		student.UserID = user.ID
		user.Student = &student
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return users, total, nil
}

// ListFaculty returns all faculty accounts sorted by name
func (r *UserRepository) ListFaculty(ctx context.Context) ([]models.User, error) {
	sqlStr, args, err := r.sb.Select(
		userColumns, "f.id", "f.employee_id",
	).
		From("users u").
		Join("faculty_members f ON f.user_id = u.id").
		Where(squirrel.Eq{"u.role": models.RoleFaculty}).
		OrderBy("u.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list faculty query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query faculty: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var faculty models.FacultyMember
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.Department,
			&user.Phone, &user.IsActive, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
			&faculty.ID, &faculty.EmployeeID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faculty row: %w", err)
		}
		faculty.UserID = user.ID
		user.Faculty = &faculty
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}

	return users, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/helpers"
)

const (
	dateLayout         = "2006-01-02"
	minReasonLength    = 10
	maxReasonLength    = 500
	dashboardListLimit = 5
	defaultApproveNote = "Approved"
)

// ListFilters narrows the department-wide listing
type ListFilters struct {
	Status    string
	LeaveType string
	StartFrom string
	StartTo   string
}

// LeaveService handles the leave application lifecycle
type LeaveService interface {
	Submit(ctx context.Context, identity *models.Identity, req *dto.ApplyLeaveRequest, documents []models.LeaveDocument) (*dto.LeaveResponse, error)
	GetByID(ctx context.Context, identity *models.Identity, id int64) (*dto.LeaveResponse, error)
	MyLeaves(ctx context.Context, identity *models.Identity, page, size int, status string) ([]dto.LeaveResponse, *dto.PaginationInfo, error)
	Pending(ctx context.Context, identity *models.Identity, page, size int, department string) ([]dto.LeaveResponse, *dto.PaginationInfo, error)
	All(ctx context.Context, identity *models.Identity, page, size int, filters ListFilters) ([]dto.LeaveResponse, *dto.PaginationInfo, error)
	Approve(ctx context.Context, identity *models.Identity, id int64, comments string) (*dto.LeaveResponse, error)
	Reject(ctx context.Context, identity *models.Identity, id int64, comments string) (*dto.LeaveResponse, error)
	Stats(ctx context.Context, identity *models.Identity) (*dto.LeaveStatsResponse, error)
	Dashboard(ctx context.Context, identity *models.Identity) (*dto.DashboardResponse, error)
}

type leaveService struct {
	leaveRepo repositories.ILeaveRepository
	userRepo  repositories.IUserRepository
	logger    zerolog.Logger
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(leaveRepo repositories.ILeaveRepository, userRepo repositories.IUserRepository, logger zerolog.Logger) LeaveService {
	return &leaveService{
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Submit validates and stores a new application for the calling student.
// Student details are copied onto the record so later profile edits do not
// rewrite history.
func (s *leaveService) Submit(ctx context.Context, identity *models.Identity, req *dto.ApplyLeaveRequest, documents []models.LeaveDocument) (*dto.LeaveResponse, error) {
	verr := &apperrors.ValidationError{}

	leaveType := models.LeaveType(req.LeaveType)
	if !leaveType.Valid() {
		verr.Add("leaveType", "Please select a valid leave type")
	}

	startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
	if err != nil {
		verr.Add("startDate", "Start date must use the YYYY-MM-DD format")
	}
	endDate, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
	if err != nil {
		verr.Add("endDate", "End date must use the YYYY-MM-DD format")
	}

	if !verr.HasErrors() {
		today := helpers.LocalMidnight(time.Now())
		if startDate.Before(today) {
			verr.Add("startDate", "Start date cannot be in the past")
		}
		if endDate.Before(startDate) {
			verr.Add("endDate", "End date must be after or equal to start date")
		}
	}

	reason := strings.TrimSpace(req.Reason)
	if reasonLength := utf8.RuneCountInString(reason); reasonLength < minReasonLength {
		verr.Add("reason", "Reason must be at least 10 characters")
	} else if reasonLength > maxReasonLength {
		verr.Add("reason", "Reason cannot exceed 500 characters")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	// Re-read the account so the snapshot reflects current profile state
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent || user.Student == nil {
		return nil, apperrors.NewForbiddenError("Only students can apply for leave")
	}

	contactNumber := req.ContactNumber
	if contactNumber == "" {
		contactNumber = user.Phone
	}

	leave := &models.LeaveApplication{
		StudentUserID:    user.ID,
		StudentName:      user.Name,
		RollNumber:       user.Student.RollNumber,
		Department:       user.Department,
		Semester:         user.Student.Semester,
		LeaveType:        leaveType,
		StartDate:        startDate,
		EndDate:          endDate,
		TotalDays:        helpers.InclusiveDays(startDate, endDate),
		Reason:           reason,
		ContactNumber:    contactNumber,
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
		Status:           models.LeaveStatusPending,
		Documents:        documents,
	}

	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, fmt.Errorf("error creating leave application: %w", err)
	}

	s.logger.Info().
		Int64("leaveID", leave.ID).
		Int64("studentID", user.ID).
		Str("leaveType", string(leaveType)).
		Int("totalDays", leave.TotalDays).
		Msg("Leave application submitted")

	resp := dto.FromLeave(leave)
	return &resp, nil
}

// GetByID returns one application. Students see only their own records,
// faculty only records from their department.
func (s *leaveService) GetByID(ctx context.Context, identity *models.Identity, id int64) (*dto.LeaveResponse, error) {
	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch identity.Role {
	case models.RoleStudent:
		if leave.StudentUserID != identity.ID {
			return nil, apperrors.NewForbiddenError("You can only view your own leave applications")
		}
	case models.RoleFaculty:
		if leave.Department != identity.Department {
			return nil, apperrors.NewForbiddenError("You can only view leave applications from your department")
		}
	default:
		return nil, apperrors.NewForbiddenError("You are not allowed to view this leave application")
	}

	resp := dto.FromLeave(leave)
	return &resp, nil
}

// MyLeaves lists the calling student's applications, newest first
func (s *leaveService) MyLeaves(ctx context.Context, identity *models.Identity, page, size int, status string) ([]dto.LeaveResponse, *dto.PaginationInfo, error) {
	var statusFilter models.LeaveStatus
	if status != "" {
		statusFilter = models.LeaveStatus(status)
		if !statusFilter.Valid() {
			verr := apperrors.NewValidationError("status", "Status must be pending, approved or rejected")
			return nil, nil, verr
		}
	}

	leaves, total, err := s.leaveRepo.ListByStudent(ctx, identity.ID, page, size, statusFilter)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return dto.FromLeaves(leaves), &pagination, nil
}

// Pending lists unreviewed applications for the reviewer's department,
// oldest first. A department parameter naming a different department is
// ignored so reviewers cannot widen their queue.
func (s *leaveService) Pending(ctx context.Context, identity *models.Identity, page, size int, department string) ([]dto.LeaveResponse, *dto.PaginationInfo, error) {
	_ = department

	leaves, total, err := s.leaveRepo.ListPendingByDepartment(ctx, identity.Department, page, size)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return dto.FromLeaves(leaves), &pagination, nil
}

// All lists the reviewer's department history with optional filters
func (s *leaveService) All(ctx context.Context, identity *models.Identity, page, size int, filters ListFilters) ([]dto.LeaveResponse, *dto.PaginationInfo, error) {
	verr := &apperrors.ValidationError{}
	repoFilters := repositories.LeaveFilters{}

	if filters.Status != "" {
		status := models.LeaveStatus(filters.Status)
		if !status.Valid() {
			verr.Add("status", "Status must be pending, approved or rejected")
		}
		repoFilters.Status = status
	}
	if filters.LeaveType != "" {
		leaveType := models.LeaveType(filters.LeaveType)
		if !leaveType.Valid() {
			verr.Add("leaveType", "Please select a valid leave type")
		}
		repoFilters.LeaveType = leaveType
	}
	if filters.StartFrom != "" {
		from, err := time.ParseInLocation(dateLayout, filters.StartFrom, time.Local)
		if err != nil {
			verr.Add("startDate", "Start date filter must use the YYYY-MM-DD format")
		} else {
			repoFilters.StartFrom = &from
		}
	}
	if filters.StartTo != "" {
		to, err := time.ParseInLocation(dateLayout, filters.StartTo, time.Local)
		if err != nil {
			verr.Add("endDate", "End date filter must use the YYYY-MM-DD format")
		} else {
			repoFilters.StartTo = &to
		}
	}
	if verr.HasErrors() {
		return nil, nil, verr
	}

	leaves, total, err := s.leaveRepo.ListByDepartment(ctx, identity.Department, page, size, repoFilters)
	if err != nil {
		return nil, nil, err
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return dto.FromLeaves(leaves), &pagination, nil
}

// review performs the shared approve/reject transition. The status update
// is conditional on the record still being pending, so two reviewers racing
// on the same application cannot both win.
func (s *leaveService) review(ctx context.Context, identity *models.Identity, id int64, status models.LeaveStatus, comments string) (*dto.LeaveResponse, error) {
	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if leave.Department != identity.Department {
		return nil, apperrors.NewForbiddenError("You can only review leave applications from your department")
	}
	if leave.Status != models.LeaveStatusPending {
		return nil, apperrors.ErrAlreadyReviewed
	}

	updated, err := s.leaveRepo.MarkReviewed(ctx, id, status, identity.ID, identity.Name, comments, time.Now())
	if err != nil {
		return nil, fmt.Errorf("error reviewing leave application: %w", err)
	}
	if !updated {
		// Lost the race to another reviewer
		return nil, apperrors.ErrAlreadyReviewed
	}

	s.logger.Info().
		Int64("leaveID", id).
		Int64("reviewerID", identity.ID).
		Str("status", string(status)).
		Msg("Leave application reviewed")

	reviewed, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromLeave(reviewed)
	return &resp, nil
}

// Approve marks a pending application approved. Empty comments default to
// a standard note.
func (s *leaveService) Approve(ctx context.Context, identity *models.Identity, id int64, comments string) (*dto.LeaveResponse, error) {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		comments = defaultApproveNote
	}
	return s.review(ctx, identity, id, models.LeaveStatusApproved, comments)
}

// Reject marks a pending application rejected. Comments are mandatory so
// the student always learns why.
func (s *leaveService) Reject(ctx context.Context, identity *models.Identity, id int64, comments string) (*dto.LeaveResponse, error) {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return nil, apperrors.NewValidationError("comments", "Comments are required when rejecting a leave application")
	}
	return s.review(ctx, identity, id, models.LeaveStatusRejected, comments)
}

// Stats returns status counts scoped to the caller's role
func (s *leaveService) Stats(ctx context.Context, identity *models.Identity) (*dto.LeaveStatsResponse, error) {
	counts, err := s.counts(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &dto.LeaveStatsResponse{
		TotalLeaves:    counts.Total,
		PendingLeaves:  counts.Pending,
		ApprovedLeaves: counts.Approved,
		RejectedLeaves: counts.Rejected,
	}, nil
}

func (s *leaveService) counts(ctx context.Context, identity *models.Identity) (models.StatusCounts, error) {
	switch identity.Role {
	case models.RoleStudent:
		return s.leaveRepo.CountByStudent(ctx, identity.ID)
	case models.RoleFaculty:
		return s.leaveRepo.CountByDepartment(ctx, identity.Department)
	default:
		return models.StatusCounts{}, nil
	}
}

// Dashboard combines status counts with a short list: the student's most
// recent applications, or for faculty the oldest waiting in their queue.
func (s *leaveService) Dashboard(ctx context.Context, identity *models.Identity) (*dto.DashboardResponse, error) {
	stats, err := s.Stats(ctx, identity)
	if err != nil {
		return nil, err
	}

	var recent []models.LeaveApplication
	switch identity.Role {
	case models.RoleStudent:
		recent, err = s.leaveRepo.RecentByStudent(ctx, identity.ID, dashboardListLimit)
	case models.RoleFaculty:
		recent, err = s.leaveRepo.OldestPendingByDepartment(ctx, identity.Department, dashboardListLimit)
	}
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Stats:  *stats,
		Recent: dto.FromLeaves(recent),
	}, nil
}

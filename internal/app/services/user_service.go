package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/helpers"
)

// UserService exposes account directory listings
type UserService interface {
	ListStudents(ctx context.Context, page, size int, department string, semester int) ([]dto.UserResponse, *dto.PaginationInfo, error)
	ListFaculty(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

// ListStudents returns student accounts, optionally narrowed by department
// and semester
func (s *userService) ListStudents(ctx context.Context, page, size int, department string, semester int) ([]dto.UserResponse, *dto.PaginationInfo, error) {
	verr := &apperrors.ValidationError{}
	var dept models.Department
	if department != "" {
		dept = models.Department(department)
		if !dept.Valid() {
			verr.Add("department", "Please select a valid department")
		}
	}
	if semester != 0 && (semester < 1 || semester > 8) {
		verr.Add("semester", "Semester must be between 1-8")
	}
	if verr.HasErrors() {
		return nil, nil, verr
	}

	users, total, err := s.userRepo.ListStudents(ctx, page, size, dept, semester)
	if err != nil {
		return nil, nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *dto.FromUser(&users[i]))
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	return out, &pagination, nil
}

// ListFaculty returns every faculty account
func (s *userService) ListFaculty(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.ListFaculty(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *dto.FromUser(&users[i]))
	}
	return out, nil
}

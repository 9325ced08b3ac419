// Package services contains the business logic layer
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/auth"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

// AuthService handles registration, login and profile operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type authService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, bcryptCost int, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// validateRegistration checks all required and role-conditional fields
func (s *authService) validateRegistration(req *dto.RegisterRequest) error {
	verr := &apperrors.ValidationError{}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 50 {
		verr.Add("name", "Name must be between 2-50 characters")
	}
	if !emailRegex.MatchString(req.Email) {
		verr.Add("email", "Please provide a valid email")
	}
	if len(req.Password) < 6 {
		verr.Add("password", "Password must be at least 6 characters")
	}
	if !phoneRegex.MatchString(req.Phone) {
		verr.Add("phone", "Please provide a valid 10-digit phone number")
	}

	role := models.Role(req.Role)
	switch role {
	case models.RoleStudent:
		if strings.TrimSpace(req.RollNumber) == "" {
			verr.Add("rollNumber", "Roll number is required for students")
		}
		if req.Semester < 1 || req.Semester > 8 {
			verr.Add("semester", "Semester must be between 1-8")
		}
	case models.RoleFaculty:
		if strings.TrimSpace(req.EmployeeID) == "" {
			verr.Add("employeeId", "Employee ID is required for faculty")
		}
	default:
		verr.Add("role", "Role must be student or faculty")
	}

	if !models.Department(req.Department).Valid() {
		verr.Add("department", "Please select a valid department")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Register creates a new account with its role variant. The credential is
// stored bcrypt-hashed and never returned.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	role := models.Role(req.Role)
	switch role {
	case models.RoleStudent:
		exists, err = s.userRepo.RollNumberExists(ctx, strings.TrimSpace(req.RollNumber))
		if err != nil {
			return nil, fmt.Errorf("error checking if roll number exists: %w", err)
		}
		if exists {
			return nil, apperrors.ErrRollNumberAlreadyExists
		}
	case models.RoleFaculty:
		exists, err = s.userRepo.EmployeeIDExists(ctx, strings.TrimSpace(req.EmployeeID))
		if err != nil {
			return nil, fmt.Errorf("error checking if employee ID exists: %w", err)
		}
		if exists {
			return nil, apperrors.ErrEmployeeIDAlreadyExists
		}
	}

	hashed, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(req.Email),
		Password:   hashed,
		Role:       role,
		Department: models.Department(req.Department),
		Phone:      req.Phone,
		IsActive:   true,
	}

	switch role {
	case models.RoleStudent:
		student := &models.Student{
			RollNumber: strings.TrimSpace(req.RollNumber),
			Semester:   req.Semester,
		}
		if err := s.userRepo.CreateStudent(ctx, user, student); err != nil {
			return nil, err
		}
	case models.RoleFaculty:
		faculty := &models.FacultyMember{
			EmployeeID: strings.TrimSpace(req.EmployeeID),
		}
		if err := s.userRepo.CreateFaculty(ctx, user, faculty); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("email", user.Email).
		Str("role", string(user.Role)).
		Str("department", string(user.Department)).
		Msg("User registered")

	return dto.FromUser(user), nil
}

// Login authenticates an account. The claimed role must match the stored
// role; a mismatch is reported as invalid credentials, not as a role error.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if string(user.Role) != req.Role {
		s.logger.Warn().Str("email", req.Email).Str("claimedRole", req.Role).Msg("Login role mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the stamp is best-effort
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      dto.FromUser(user),
	}, nil
}

// GetProfile returns the public profile of an account
func (s *authService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// UpdateProfile updates name, phone and (students only) semester
func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	verr := &apperrors.ValidationError{}
	name := strings.TrimSpace(req.Name)
	if req.Name != "" && (len(name) < 2 || len(name) > 50) {
		verr.Add("name", "Name must be between 2-50 characters")
	}
	if req.Phone != "" && !phoneRegex.MatchString(req.Phone) {
		verr.Add("phone", "Please provide a valid 10-digit phone number")
	}
	if req.Semester != 0 && (req.Semester < 1 || req.Semester > 8) {
		verr.Add("semester", "Semester must be between 1-8")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" || req.Phone != "" {
		if err := s.userRepo.UpdateProfile(ctx, userID, name, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Semester != 0 && user.Role == models.RoleStudent {
		if err := s.userRepo.UpdateSemester(ctx, userID, req.Semester); err != nil {
			return nil, err
		}
	}

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return dto.FromUser(updated), nil
}

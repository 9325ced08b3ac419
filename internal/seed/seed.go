// Package seed creates the accounts the application ships with
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/auth"
)

// CreateDefaultData creates the default admin plus one demo student and one
// demo faculty account if they do not exist yet. Already existing accounts
// are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, bcryptCost int, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default accounts...")
	var finalErr error

	hash := func(plain string) (string, error) {
		return auth.HashPassword(plain, bcryptCost)
	}

	// Admin
	if password, err := hash("admin123"); err != nil {
		finalErr = errors.Join(finalErr, err)
	} else {
		admin := &models.User{
			Name:       "System Administrator",
			Email:      "admin@college.edu",
			Password:   password,
			Role:       models.RoleAdmin,
			Department: models.DepartmentCSE,
			Phone:      "9999999999",
			IsActive:   true,
		}
		if err := userRepo.CreateAdmin(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating default admin account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Demo student
	if password, err := hash("student123"); err != nil {
		finalErr = errors.Join(finalErr, err)
	} else {
		student := &models.User{
			Name:       "Demo Student",
			Email:      "student@college.edu",
			Password:   password,
			Role:       models.RoleStudent,
			Department: models.DepartmentCSE,
			Phone:      "8888888888",
			IsActive:   true,
		}
		variant := &models.Student{RollNumber: "CSE2023001", Semester: 5}
		if err := userRepo.CreateStudent(ctx, student, variant); err != nil &&
			!errors.Is(err, apperrors.ErrEmailAlreadyExists) &&
			!errors.Is(err, apperrors.ErrRollNumberAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating demo student account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Demo faculty
	if password, err := hash("faculty123"); err != nil {
		finalErr = errors.Join(finalErr, err)
	} else {
		faculty := &models.User{
			Name:       "Demo Faculty",
			Email:      "faculty@college.edu",
			Password:   password,
			Role:       models.RoleFaculty,
			Department: models.DepartmentCSE,
			Phone:      "7777777777",
			IsActive:   true,
		}
		variant := &models.FacultyMember{EmployeeID: "FAC2023001"}
		if err := userRepo.CreateFaculty(ctx, faculty, variant); err != nil &&
			!errors.Is(err, apperrors.ErrEmailAlreadyExists) &&
			!errors.Is(err, apperrors.ErrEmployeeIDAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating demo faculty account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default accounts ready")
	}
	return finalErr
}

// Package repositories contains the database access layer
package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories combines all application repositories
type Repositories struct {
	UserRepository  *UserRepository
	LeaveRepository *LeaveRepository
}

// NewRepositories creates the repository container
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:  NewUserRepository(db),
		LeaveRepository: NewLeaveRepository(db),
	}
}

package dto

import (
	"time"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
)

// RegisterRequest represents a registration request. Role-conditional fields
// are validated in the service: students need rollNumber and semester,
// faculty need employeeId.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=50"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required,oneof=student faculty"`
	Department string `json:"department" binding:"required"`
	Phone      string `json:"phone" binding:"required,len=10,numeric"`

	// Student fields
	RollNumber string `json:"rollNumber,omitempty"`
	Semester   int    `json:"semester,omitempty"`

	// Faculty fields
	EmployeeID string `json:"employeeId,omitempty"`
}

// LoginRequest represents login credentials. The claimed role must match the
// stored role.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student faculty admin"`
}

// UpdateProfileRequest represents profile update data. Only name, phone and
// (for students) semester are mutable.
type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty" binding:"omitempty,min=2,max=50"`
	Phone    string `json:"phone,omitempty" binding:"omitempty,len=10,numeric"`
	Semester int    `json:"semester,omitempty" binding:"omitempty,min=1,max=8"`
}

// UserResponse represents the public profile of an account
type UserResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Department string     `json:"department"`
	Phone      string     `json:"phone"`
	RollNumber string     `json:"rollNumber,omitempty"`
	Semester   int        `json:"semester,omitempty"`
	EmployeeID string     `json:"employeeId,omitempty"`
	IsActive   bool       `json:"isActive"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LoginResponse carries the session token and the public profile
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"tokenType" example:"Bearer"`
	ExpiresIn int64         `json:"expiresIn"`
	User      *UserResponse `json:"user"`
}

// FromUser builds the public profile from an account and its variant row
func FromUser(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}

	resp := &UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: string(user.Department),
		Phone:      user.Phone,
		IsActive:   user.IsActive,
		LastLogin:  user.LastLoginAt,
		CreatedAt:  user.CreatedAt,
	}

	if user.Student != nil {
		resp.RollNumber = user.Student.RollNumber
		resp.Semester = user.Student.Semester
	}
	if user.Faculty != nil {
		resp.EmployeeID = user.Faculty.EmployeeID
	}

	return resp
}

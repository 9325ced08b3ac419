package models

import (
	"time"
)

// User defines the account model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Name        string     `json:"name" db:"name" example:"Asha Verma"`
	Email       string     `json:"email" db:"email" example:"asha@college.edu"`
	Password    string     `json:"-" db:"password"` // hashed, never serialized
	Role        Role       `json:"role" db:"role" example:"student"`
	Department  Department `json:"department" db:"department" example:"CSE"`
	Phone       string     `json:"phone" db:"phone" example:"9876543210"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Role variant rows (populated when needed)
	Student *Student       `json:"student,omitempty"`
	Faculty *FacultyMember `json:"faculty,omitempty"`
}

// Student defines the student variant row based on the 'students' table.
// Exactly one of Student/FacultyMember exists per user, matching the role.
type Student struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"userId" db:"user_id"`
	RollNumber string `json:"rollNumber" db:"roll_number" example:"CS21B042"`
	Semester   int    `json:"semester" db:"semester" example:"5"`
}

// FacultyMember defines the faculty variant row based on the 'faculty_members' table
type FacultyMember struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"userId" db:"user_id"`
	EmployeeID string `json:"employeeId" db:"employee_id" example:"FAC-1024"`
}

// Identity is the request-scoped account snapshot attached by the auth
// middleware after the token's subject has been re-resolved against the
// store. Handlers read ownership and department facts from here.
type Identity struct {
	ID         int64
	Name       string
	Email      string
	Role       Role
	Department Department
	RollNumber string // set when Role == student
	Semester   int    // set when Role == student
	EmployeeID string // set when Role == faculty
}

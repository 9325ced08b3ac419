package models

// Role defines the account role type
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// Department represents an organizational unit. Faculty visibility over
// leave applications is scoped by department.
type Department string

const (
	DepartmentCSE Department = "CSE"
	DepartmentECE Department = "ECE"
	DepartmentME  Department = "ME"
	DepartmentCE  Department = "CE"
	DepartmentEE  Department = "EE"
	DepartmentIT  Department = "IT"
)

// AllDepartments lists every recognized department.
var AllDepartments = []Department{
	DepartmentCSE, DepartmentECE, DepartmentME,
	DepartmentCE, DepartmentEE, DepartmentIT,
}

// Valid reports whether the department is part of the fixed enumeration.
func (d Department) Valid() bool {
	for _, dep := range AllDepartments {
		if d == dep {
			return true
		}
	}
	return false
}

// LeaveType categorizes a leave application
type LeaveType string

const (
	LeaveTypeMedical   LeaveType = "medical"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeExam      LeaveType = "exam"
	LeaveTypeFamily    LeaveType = "family"
	LeaveTypeOther     LeaveType = "other"
)

// Valid reports whether the leave type is a recognized category.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeMedical, LeaveTypePersonal, LeaveTypeEmergency,
		LeaveTypeExam, LeaveTypeFamily, LeaveTypeOther:
		return true
	}
	return false
}

// LeaveStatus represents the lifecycle state of a leave application.
// pending is the initial state; approved and rejected are terminal.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Valid reports whether the status is a known lifecycle state.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}

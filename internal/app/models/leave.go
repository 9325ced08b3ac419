package models

import (
	"time"
)

// LeaveApplication defines a leave request based on the 'leave_applications'
// table. Student name, roll number, department and semester are copied from
// the student's account at submission time so later profile edits never
// alter historical applications.
type LeaveApplication struct {
	ID            int64      `json:"id" db:"id" example:"17"`
	StudentUserID int64      `json:"studentId" db:"student_user_id"`
	StudentName   string     `json:"studentName" db:"student_name"`
	RollNumber    string     `json:"rollNumber" db:"roll_number"`
	Department    Department `json:"department" db:"department"`
	Semester      int        `json:"semester" db:"semester"`

	LeaveType LeaveType `json:"leaveType" db:"leave_type" example:"medical"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	TotalDays int       `json:"totalDays" db:"total_days" example:"3"`
	Reason    string    `json:"reason" db:"reason"`

	ContactNumber    string `json:"contactNumber,omitempty" db:"contact_number"`
	EmergencyContact string `json:"emergencyContact,omitempty" db:"emergency_contact"`

	Status LeaveStatus `json:"status" db:"status" example:"pending"`

	ReviewedBy   *int64     `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewerName *string    `json:"reviewerName,omitempty" db:"reviewer_name"`
	ReviewDate   *time.Time `json:"reviewDate,omitempty" db:"review_date"`
	Comments     *string    `json:"comments,omitempty" db:"comments"`

	AppliedAt time.Time `json:"appliedAt" db:"applied_at"`

	Documents []LeaveDocument `json:"documents,omitempty"`

	// Populated via joins when listing (not stored on this table)
	StudentEmail       string `json:"studentEmail,omitempty"`
	StudentPhone       string `json:"studentPhone,omitempty"`
	ReviewerEmployeeID string `json:"reviewerEmployeeId,omitempty"`
}

// LeaveDocument defines a supporting document row based on the
// 'leave_documents' table
type LeaveDocument struct {
	ID           int64     `json:"id" db:"id"`
	LeaveID      int64     `json:"leaveId" db:"leave_id"`
	FileName     string    `json:"fileName" db:"file_name"`
	OriginalName string    `json:"originalName" db:"original_name"`
	MimeType     string    `json:"mimeType" db:"mime_type"`
	SizeBytes    int64     `json:"size" db:"size_bytes"`
	StoragePath  string    `json:"path" db:"storage_path"`
	UploadedAt   time.Time `json:"uploadedAt" db:"uploaded_at"`
}

// StatusCounts holds per-status aggregate counts for dashboards.
type StatusCounts struct {
	Total    int64 `json:"totalLeaves"`
	Pending  int64 `json:"pendingLeaves"`
	Approved int64 `json:"approvedLeaves"`
	Rejected int64 `json:"rejectedLeaves"`
}

package dto

import (
	"time"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
)

// ApplyLeaveRequest represents a leave submission. Dates use the
// "2006-01-02" layout; totalDays is always recomputed server-side.
type ApplyLeaveRequest struct {
	LeaveType        string `json:"leaveType" form:"leaveType" binding:"required"`
	StartDate        string `json:"startDate" form:"startDate" binding:"required"`
	EndDate          string `json:"endDate" form:"endDate" binding:"required"`
	Reason           string `json:"reason" form:"reason" binding:"required"`
	ContactNumber    string `json:"contactNumber,omitempty" form:"contactNumber" binding:"omitempty,len=10,numeric"`
	EmergencyContact string `json:"emergencyContact,omitempty" form:"emergencyContact" binding:"omitempty,max=100"`
}

// ReviewLeaveRequest carries reviewer comments for approve/reject.
// Comments are mandatory for rejection.
type ReviewLeaveRequest struct {
	Comments string `json:"comments" binding:"omitempty,max=300"`
}

// LeaveDocumentResponse describes one stored supporting document
type LeaveDocumentResponse struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// LeaveResponse represents one leave application with its review outcome
type LeaveResponse struct {
	ID            int64  `json:"id"`
	StudentID     int64  `json:"studentId"`
	StudentName   string `json:"studentName"`
	RollNumber    string `json:"rollNumber"`
	Department    string `json:"department"`
	Semester      int    `json:"semester"`
	StudentEmail  string `json:"studentEmail,omitempty"`
	StudentPhone  string `json:"studentPhone,omitempty"`

	LeaveType        string `json:"leaveType"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	TotalDays        int    `json:"totalDays"`
	Reason           string `json:"reason"`
	ContactNumber    string `json:"contactNumber,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`

	Status             string     `json:"status"`
	ReviewedBy         *int64     `json:"reviewedBy,omitempty"`
	ReviewerName       string     `json:"reviewerName,omitempty"`
	ReviewerEmployeeID string     `json:"reviewerEmployeeId,omitempty"`
	ReviewDate         *time.Time `json:"reviewDate,omitempty"`
	Comments           string     `json:"comments,omitempty"`

	AppliedAt time.Time               `json:"appliedAt"`
	Documents []LeaveDocumentResponse `json:"documents,omitempty"`
}

// LeaveStatsResponse holds role-scoped counts by status
type LeaveStatsResponse struct {
	TotalLeaves    int64 `json:"totalLeaves"`
	PendingLeaves  int64 `json:"pendingLeaves"`
	ApprovedLeaves int64 `json:"approvedLeaves"`
	RejectedLeaves int64 `json:"rejectedLeaves"`
}

// DashboardResponse composes stats with a short list for the landing view
type DashboardResponse struct {
	Stats  LeaveStatsResponse `json:"stats"`
	Recent []LeaveResponse    `json:"recent"`
}

const dateLayout = "2006-01-02"

// FromLeave converts a LeaveApplication to its response shape
func FromLeave(leave *models.LeaveApplication) LeaveResponse {
	if leave == nil {
		return LeaveResponse{}
	}

	resp := LeaveResponse{
		ID:               leave.ID,
		StudentID:        leave.StudentUserID,
		StudentName:      leave.StudentName,
		RollNumber:       leave.RollNumber,
		Department:       string(leave.Department),
		Semester:         leave.Semester,
		StudentEmail:     leave.StudentEmail,
		StudentPhone:     leave.StudentPhone,
		LeaveType:        string(leave.LeaveType),
		StartDate:        leave.StartDate.Format(dateLayout),
		EndDate:          leave.EndDate.Format(dateLayout),
		TotalDays:        leave.TotalDays,
		Reason:           leave.Reason,
		ContactNumber:    leave.ContactNumber,
		EmergencyContact: leave.EmergencyContact,
		Status:           string(leave.Status),
		ReviewedBy:       leave.ReviewedBy,
		ReviewDate:       leave.ReviewDate,
		AppliedAt:        leave.AppliedAt,
	}

	if leave.ReviewerName != nil {
		resp.ReviewerName = *leave.ReviewerName
	}
	resp.ReviewerEmployeeID = leave.ReviewerEmployeeID
	if leave.Comments != nil {
		resp.Comments = *leave.Comments
	}

	for _, doc := range leave.Documents {
		resp.Documents = append(resp.Documents, LeaveDocumentResponse{
			ID:           doc.ID,
			FileName:     doc.FileName,
			OriginalName: doc.OriginalName,
			MimeType:     doc.MimeType,
			Size:         doc.SizeBytes,
			UploadedAt:   doc.UploadedAt,
		})
	}

	return resp
}

// FromLeaves converts a slice of applications
func FromLeaves(leaves []models.LeaveApplication) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, FromLeave(&leaves[i]))
	}
	return out
}

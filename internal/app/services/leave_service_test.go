package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
)

type leaveFixture struct {
	svc      LeaveService
	users    *fakeUserRepo
	leaves   *fakeLeaveRepo
	student  *models.Identity
	student2 *models.Identity
	faculty  *models.Identity
	outsider *models.Identity
	admin    *models.Identity
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	users := newFakeUserRepo()
	leaves := newFakeLeaveRepo()

	mkStudent := func(name, email, roll string, dept models.Department) *models.Identity {
		user := &models.User{
			Name: name, Email: email, Role: models.RoleStudent,
			Department: dept, Phone: "9876543210", IsActive: true,
		}
		if err := users.CreateStudent(context.Background(), user, &models.Student{RollNumber: roll, Semester: 5}); err != nil {
			t.Fatalf("creating student: %v", err)
		}
		return &models.Identity{
			ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role,
			Department: user.Department, RollNumber: roll, Semester: 5,
		}
	}
	mkFaculty := func(name, email, empID string, dept models.Department) *models.Identity {
		user := &models.User{
			Name: name, Email: email, Role: models.RoleFaculty,
			Department: dept, Phone: "9876500000", IsActive: true,
		}
		if err := users.CreateFaculty(context.Background(), user, &models.FacultyMember{EmployeeID: empID}); err != nil {
			t.Fatalf("creating faculty: %v", err)
		}
		return &models.Identity{
			ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role,
			Department: user.Department, EmployeeID: empID,
		}
	}

	admin := &models.User{
		Name: "Admin", Email: "admin@college.edu", Role: models.RoleAdmin,
		Department: models.DepartmentCSE, Phone: "9999999999", IsActive: true,
	}
	if err := users.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	return &leaveFixture{
		svc:      NewLeaveService(leaves, users, zerolog.Nop()),
		users:    users,
		leaves:   leaves,
		student:  mkStudent("Ravi Kumar", "ravi@college.edu", "CSE001", models.DepartmentCSE),
		student2: mkStudent("Priya Singh", "priya@college.edu", "CSE002", models.DepartmentCSE),
		faculty:  mkFaculty("Dr. Rao", "rao@college.edu", "FAC001", models.DepartmentCSE),
		outsider: mkFaculty("Dr. Iyer", "iyer@college.edu", "FAC002", models.DepartmentECE),
		admin: &models.Identity{
			ID: admin.ID, Name: admin.Name, Email: admin.Email,
			Role: admin.Role, Department: admin.Department,
		},
	}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func validApplyRequest() *dto.ApplyLeaveRequest {
	return &dto.ApplyLeaveRequest{
		LeaveType: "medical",
		StartDate: futureDate(1),
		EndDate:   futureDate(3),
		Reason:    "Fever and doctor advised rest for a few days",
	}
}

func (fx *leaveFixture) submit(t *testing.T, identity *models.Identity, req *dto.ApplyLeaveRequest) *dto.LeaveResponse {
	t.Helper()
	leave, err := fx.svc.Submit(context.Background(), identity, req, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return leave
}

func TestSubmitCopiesStudentDetails(t *testing.T) {
	fx := newLeaveFixture(t)

	leave := fx.submit(t, fx.student, validApplyRequest())

	if leave.Status != "pending" {
		t.Errorf("Status = %q, want pending", leave.Status)
	}
	if leave.StudentName != "Ravi Kumar" || leave.RollNumber != "CSE001" {
		t.Errorf("snapshot = (%q, %q), want student details", leave.StudentName, leave.RollNumber)
	}
	if leave.Department != "CSE" || leave.Semester != 5 {
		t.Errorf("snapshot dept/semester = (%q, %d)", leave.Department, leave.Semester)
	}
	if leave.TotalDays != 3 {
		t.Errorf("TotalDays = %d, want 3 for a 3-day inclusive span", leave.TotalDays)
	}
	// No contact given, so the student's phone is used
	if leave.ContactNumber != "9876543210" {
		t.Errorf("ContactNumber = %q, want the profile phone", leave.ContactNumber)
	}
}

func TestSubmitSingleDaySpan(t *testing.T) {
	fx := newLeaveFixture(t)

	req := validApplyRequest()
	req.StartDate = futureDate(2)
	req.EndDate = futureDate(2)

	if leave := fx.submit(t, fx.student, req); leave.TotalDays != 1 {
		t.Errorf("TotalDays = %d, want 1 when start equals end", leave.TotalDays)
	}
}

func TestSubmitValidation(t *testing.T) {
	fx := newLeaveFixture(t)

	longReason := ""
	for i := 0; i < 51; i++ {
		longReason += "0123456789"
	}

	tests := []struct {
		name   string
		mutate func(*dto.ApplyLeaveRequest)
	}{
		{"unknown leave type", func(r *dto.ApplyLeaveRequest) { r.LeaveType = "vacation" }},
		{"malformed start date", func(r *dto.ApplyLeaveRequest) { r.StartDate = "01-05-2026" }},
		{"malformed end date", func(r *dto.ApplyLeaveRequest) { r.EndDate = "soon" }},
		{"start date in the past", func(r *dto.ApplyLeaveRequest) { r.StartDate = futureDate(-1) }},
		{"end before start", func(r *dto.ApplyLeaveRequest) {
			r.StartDate = futureDate(5)
			r.EndDate = futureDate(3)
		}},
		{"reason too short", func(r *dto.ApplyLeaveRequest) { r.Reason = "sick" }},
		{"reason only whitespace", func(r *dto.ApplyLeaveRequest) { r.Reason = "                 " }},
		{"reason too long", func(r *dto.ApplyLeaveRequest) { r.Reason = longReason }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validApplyRequest()
			tt.mutate(req)

			_, err := fx.svc.Submit(context.Background(), fx.student, req, nil)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("Submit: err = %v, want a validation failure", err)
			}
		})
	}
}

func TestSubmitTrimsReason(t *testing.T) {
	fx := newLeaveFixture(t)

	req := validApplyRequest()
	req.Reason = "   needs to attend a family function out of town   "

	leave := fx.submit(t, fx.student, req)
	if leave.Reason != "needs to attend a family function out of town" {
		t.Errorf("Reason = %q, want trimmed", leave.Reason)
	}
}

func TestSubmitCountsReasonInRunes(t *testing.T) {
	fx := newLeaveFixture(t)

	// 300 characters but 600 bytes; the 500-character cap counts characters
	req := validApplyRequest()
	req.Reason = strings.Repeat("ü", 300)
	if leave := fx.submit(t, fx.student, req); leave.Reason != req.Reason {
		t.Errorf("Reason = %q, want the multibyte reason stored as given", leave.Reason)
	}

	// 9 characters is below the minimum even though it is 18 bytes
	req = validApplyRequest()
	req.Reason = strings.Repeat("ü", 9)
	if _, err := fx.svc.Submit(context.Background(), fx.student, req, nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("Submit: err = %v, want a validation failure for a 9-character reason", err)
	}
}

func TestGetByIDAccess(t *testing.T) {
	fx := newLeaveFixture(t)
	leave := fx.submit(t, fx.student, validApplyRequest())

	if _, err := fx.svc.GetByID(context.Background(), fx.student, leave.ID); err != nil {
		t.Errorf("owner GetByID: %v", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), fx.student2, leave.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other student GetByID: err = %v, want permission denied", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), fx.faculty, leave.ID); err != nil {
		t.Errorf("same-department faculty GetByID: %v", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), fx.outsider, leave.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other-department faculty GetByID: err = %v, want permission denied", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), fx.admin, leave.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("admin GetByID: err = %v, want permission denied", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), fx.student, 9999); !errors.Is(err, apperrors.ErrLeaveNotFound) {
		t.Errorf("missing id GetByID: err = %v, want not found", err)
	}
}

func TestApproveDefaultsComments(t *testing.T) {
	fx := newLeaveFixture(t)
	leave := fx.submit(t, fx.student, validApplyRequest())

	reviewed, err := fx.svc.Approve(context.Background(), fx.faculty, leave.ID, "   ")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if reviewed.Status != "approved" {
		t.Errorf("Status = %q, want approved", reviewed.Status)
	}
	if reviewed.Comments != "Approved" {
		t.Errorf("Comments = %q, want the default note", reviewed.Comments)
	}
	if reviewed.ReviewerName != fx.faculty.Name {
		t.Errorf("ReviewerName = %q, want %q", reviewed.ReviewerName, fx.faculty.Name)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != fx.faculty.ID {
		t.Error("ReviewedBy not recorded")
	}
	if reviewed.ReviewDate == nil {
		t.Error("ReviewDate not recorded")
	}
}

func TestRejectRequiresComments(t *testing.T) {
	fx := newLeaveFixture(t)
	leave := fx.submit(t, fx.student, validApplyRequest())

	if _, err := fx.svc.Reject(context.Background(), fx.faculty, leave.ID, "  "); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("Reject without comments: err = %v, want validation failure", err)
	}

	reviewed, err := fx.svc.Reject(context.Background(), fx.faculty, leave.ID, "Medical certificate missing")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if reviewed.Status != "rejected" {
		t.Errorf("Status = %q, want rejected", reviewed.Status)
	}
	if reviewed.Comments != "Medical certificate missing" {
		t.Errorf("Comments = %q", reviewed.Comments)
	}
}

func TestReviewFiresOnlyOnce(t *testing.T) {
	fx := newLeaveFixture(t)
	leave := fx.submit(t, fx.student, validApplyRequest())

	if _, err := fx.svc.Approve(context.Background(), fx.faculty, leave.ID, ""); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	if _, err := fx.svc.Reject(context.Background(), fx.faculty, leave.ID, "changed my mind"); !errors.Is(err, apperrors.ErrAlreadyReviewed) {
		t.Errorf("Reject after Approve: err = %v, want already reviewed", err)
	}
	if _, err := fx.svc.Approve(context.Background(), fx.faculty, leave.ID, ""); !errors.Is(err, apperrors.ErrAlreadyReviewed) {
		t.Errorf("second Approve: err = %v, want already reviewed", err)
	}

	got, err := fx.svc.GetByID(context.Background(), fx.faculty, leave.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != "approved" {
		t.Errorf("Status after repeat reviews = %q, want approved to stick", got.Status)
	}
}

func TestReviewDepartmentScoping(t *testing.T) {
	fx := newLeaveFixture(t)
	leave := fx.submit(t, fx.student, validApplyRequest())

	if _, err := fx.svc.Approve(context.Background(), fx.outsider, leave.ID, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Approve across departments: err = %v, want permission denied", err)
	}
	if _, err := fx.svc.Reject(context.Background(), fx.outsider, leave.ID, "no"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Reject across departments: err = %v, want permission denied", err)
	}
}

func TestPendingIgnoresDepartmentParameter(t *testing.T) {
	fx := newLeaveFixture(t)
	fx.submit(t, fx.student, validApplyRequest())

	// Asking for another department still yields only the caller's queue
	leaves, _, err := fx.svc.Pending(context.Background(), fx.outsider, 1, 10, "CSE")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(leaves) != 0 {
		t.Errorf("ECE reviewer got %d CSE applications", len(leaves))
	}

	leaves, _, err = fx.svc.Pending(context.Background(), fx.faculty, 1, 10, "ECE")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(leaves) != 1 {
		t.Errorf("CSE reviewer got %d applications, want 1", len(leaves))
	}
}

func TestPendingOldestFirst(t *testing.T) {
	fx := newLeaveFixture(t)
	first := fx.submit(t, fx.student, validApplyRequest())
	second := fx.submit(t, fx.student2, validApplyRequest())

	leaves, total, err := fx.svc.Pending(context.Background(), fx.faculty, 1, 10, "")
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if total.TotalItems != 2 || len(leaves) != 2 {
		t.Fatalf("got %d of %d applications, want 2", len(leaves), total.TotalItems)
	}
	if leaves[0].ID != first.ID || leaves[1].ID != second.ID {
		t.Errorf("order = [%d, %d], want oldest first [%d, %d]", leaves[0].ID, leaves[1].ID, first.ID, second.ID)
	}
}

func TestMyLeavesNewestFirst(t *testing.T) {
	fx := newLeaveFixture(t)
	first := fx.submit(t, fx.student, validApplyRequest())
	second := fx.submit(t, fx.student, validApplyRequest())
	fx.submit(t, fx.student2, validApplyRequest())

	leaves, pagination, err := fx.svc.MyLeaves(context.Background(), fx.student, 1, 10, "")
	if err != nil {
		t.Fatalf("MyLeaves: %v", err)
	}
	if pagination.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want only the caller's applications", pagination.TotalItems)
	}
	if leaves[0].ID != second.ID || leaves[1].ID != first.ID {
		t.Errorf("order = [%d, %d], want newest first", leaves[0].ID, leaves[1].ID)
	}

	if _, _, err := fx.svc.MyLeaves(context.Background(), fx.student, 1, 10, "cancelled"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("MyLeaves with bad status: err = %v, want validation failure", err)
	}
}

func TestAllFilters(t *testing.T) {
	fx := newLeaveFixture(t)

	medical := validApplyRequest()
	fx.submit(t, fx.student, medical)

	exam := validApplyRequest()
	exam.LeaveType = "exam"
	exam.StartDate = futureDate(10)
	exam.EndDate = futureDate(12)
	examLeave := fx.submit(t, fx.student2, exam)

	if _, err := fx.svc.Approve(context.Background(), fx.faculty, examLeave.ID, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	leaves, _, err := fx.svc.All(context.Background(), fx.faculty, 1, 10, ListFilters{Status: "approved"})
	if err != nil {
		t.Fatalf("All(status): %v", err)
	}
	if len(leaves) != 1 || leaves[0].ID != examLeave.ID {
		t.Errorf("status filter returned %d rows", len(leaves))
	}

	leaves, _, err = fx.svc.All(context.Background(), fx.faculty, 1, 10, ListFilters{LeaveType: "medical"})
	if err != nil {
		t.Fatalf("All(leaveType): %v", err)
	}
	if len(leaves) != 1 || leaves[0].LeaveType != "medical" {
		t.Errorf("leaveType filter returned %d rows", len(leaves))
	}

	leaves, _, err = fx.svc.All(context.Background(), fx.faculty, 1, 10, ListFilters{StartFrom: futureDate(8)})
	if err != nil {
		t.Fatalf("All(startDate): %v", err)
	}
	if len(leaves) != 1 || leaves[0].ID != examLeave.ID {
		t.Errorf("start window filter returned %d rows", len(leaves))
	}

	if _, _, err := fx.svc.All(context.Background(), fx.faculty, 1, 10, ListFilters{Status: "maybe"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("All with bad status: err = %v, want validation failure", err)
	}
	if _, _, err := fx.svc.All(context.Background(), fx.faculty, 1, 10, ListFilters{StartFrom: "tomorrow"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("All with bad date: err = %v, want validation failure", err)
	}
}

func TestStatsByRole(t *testing.T) {
	fx := newLeaveFixture(t)

	a := fx.submit(t, fx.student, validApplyRequest())
	b := fx.submit(t, fx.student, validApplyRequest())
	fx.submit(t, fx.student2, validApplyRequest())

	if _, err := fx.svc.Approve(context.Background(), fx.faculty, a.ID, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := fx.svc.Reject(context.Background(), fx.faculty, b.ID, "overlapping dates"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	studentStats, err := fx.svc.Stats(context.Background(), fx.student)
	if err != nil {
		t.Fatalf("Stats(student): %v", err)
	}
	if studentStats.TotalLeaves != 2 || studentStats.ApprovedLeaves != 1 || studentStats.RejectedLeaves != 1 || studentStats.PendingLeaves != 0 {
		t.Errorf("student stats = %+v", studentStats)
	}

	facultyStats, err := fx.svc.Stats(context.Background(), fx.faculty)
	if err != nil {
		t.Fatalf("Stats(faculty): %v", err)
	}
	if facultyStats.TotalLeaves != 3 || facultyStats.PendingLeaves != 1 {
		t.Errorf("faculty stats = %+v", facultyStats)
	}

	outsiderStats, err := fx.svc.Stats(context.Background(), fx.outsider)
	if err != nil {
		t.Fatalf("Stats(outsider): %v", err)
	}
	if outsiderStats.TotalLeaves != 0 {
		t.Errorf("ECE stats = %+v, want zeros", outsiderStats)
	}

	adminStats, err := fx.svc.Stats(context.Background(), fx.admin)
	if err != nil {
		t.Fatalf("Stats(admin): %v", err)
	}
	if adminStats.TotalLeaves != 0 || adminStats.PendingLeaves != 0 {
		t.Errorf("admin stats = %+v, want zeros", adminStats)
	}
}

func TestDashboard(t *testing.T) {
	fx := newLeaveFixture(t)

	var ids []int64
	for i := 0; i < 7; i++ {
		req := validApplyRequest()
		req.Reason = fmt.Sprintf("application number %d needs review", i)
		ids = append(ids, fx.submit(t, fx.student, req).ID)
	}

	studentDash, err := fx.svc.Dashboard(context.Background(), fx.student)
	if err != nil {
		t.Fatalf("Dashboard(student): %v", err)
	}
	if studentDash.Stats.TotalLeaves != 7 {
		t.Errorf("student dashboard total = %d", studentDash.Stats.TotalLeaves)
	}
	if len(studentDash.Recent) != 5 {
		t.Fatalf("student dashboard shows %d entries, want 5", len(studentDash.Recent))
	}
	if studentDash.Recent[0].ID != ids[len(ids)-1] {
		t.Errorf("student dashboard should lead with the newest application")
	}

	facultyDash, err := fx.svc.Dashboard(context.Background(), fx.faculty)
	if err != nil {
		t.Fatalf("Dashboard(faculty): %v", err)
	}
	if len(facultyDash.Recent) != 5 {
		t.Fatalf("faculty dashboard shows %d entries, want 5", len(facultyDash.Recent))
	}
	if facultyDash.Recent[0].ID != ids[0] {
		t.Errorf("faculty dashboard should lead with the oldest pending application")
	}
}

func TestSubmitRecordsDocuments(t *testing.T) {
	fx := newLeaveFixture(t)

	docs := []models.LeaveDocument{{
		FileName:     "b8f7f9f2.pdf",
		OriginalName: "certificate.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    2048,
		StoragePath:  "uploads/b8f7f9f2.pdf",
	}}

	leave, err := fx.svc.Submit(context.Background(), fx.student, validApplyRequest(), docs)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(leave.Documents) != 1 {
		t.Fatalf("got %d documents, want 1", len(leave.Documents))
	}
	if leave.Documents[0].OriginalName != "certificate.pdf" {
		t.Errorf("OriginalName = %q", leave.Documents[0].OriginalName)
	}
}

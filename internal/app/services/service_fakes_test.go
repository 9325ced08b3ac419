package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
)

var (
	_ repositories.IUserRepository  = (*fakeUserRepo)(nil)
	_ repositories.ILeaveRepository = (*fakeLeaveRepo)(nil)
)

// fakeUserRepo is an in-memory IUserRepository for service tests
type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (f *fakeUserRepo) addUser(user *models.User) {
	f.nextID++
	user.ID = f.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Student != nil {
		user.Student.UserID = user.ID
	}
	if user.Faculty != nil {
		user.Faculty.UserID = user.ID
	}
	f.users[user.ID] = user
}

func (f *fakeUserRepo) CreateStudent(_ context.Context, user *models.User, student *models.Student) error {
	if f.emailTaken(user.Email) {
		return apperrors.ErrEmailAlreadyExists
	}
	for _, u := range f.users {
		if u.Student != nil && u.Student.RollNumber == student.RollNumber {
			return apperrors.ErrRollNumberAlreadyExists
		}
	}
	user.Student = student
	f.addUser(user)
	return nil
}

func (f *fakeUserRepo) CreateFaculty(_ context.Context, user *models.User, faculty *models.FacultyMember) error {
	if f.emailTaken(user.Email) {
		return apperrors.ErrEmailAlreadyExists
	}
	for _, u := range f.users {
		if u.Faculty != nil && u.Faculty.EmployeeID == faculty.EmployeeID {
			return apperrors.ErrEmployeeIDAlreadyExists
		}
	}
	user.Faculty = faculty
	f.addUser(user)
	return nil
}

func (f *fakeUserRepo) CreateAdmin(_ context.Context, user *models.User) error {
	if f.emailTaken(user.Email) {
		return apperrors.ErrEmailAlreadyExists
	}
	f.addUser(user)
	return nil
}

func (f *fakeUserRepo) emailTaken(email string) bool {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	return f.emailTaken(email), nil
}

func (f *fakeUserRepo) RollNumberExists(_ context.Context, rollNumber string) (bool, error) {
	for _, u := range f.users {
		if u.Student != nil && u.Student.RollNumber == rollNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) EmployeeIDExists(_ context.Context, employeeID string) (bool, error) {
	for _, u := range f.users {
		if u.Faculty != nil && u.Faculty.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, userID int64, name, phone string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	return nil
}

func (f *fakeUserRepo) UpdateSemester(_ context.Context, userID int64, semester int) error {
	user, ok := f.users[userID]
	if !ok || user.Student == nil {
		return apperrors.ErrUserNotFound
	}
	user.Student.Semester = semester
	return nil
}

func (f *fakeUserRepo) ListStudents(_ context.Context, page, size int, department models.Department, semester int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role != models.RoleStudent {
			continue
		}
		if department != "" && u.Department != department {
			continue
		}
		if semester != 0 && (u.Student == nil || u.Student.Semester != semester) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginateUsers(out, page, size)
}

func (f *fakeUserRepo) ListFaculty(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleFaculty {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func paginateUsers(users []models.User, page, size int) ([]models.User, int64, error) {
	total := int64(len(users))
	start := (page - 1) * size
	if start >= len(users) {
		return nil, total, nil
	}
	end := start + size
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], total, nil
}

// fakeLeaveRepo is an in-memory ILeaveRepository for service tests
type fakeLeaveRepo struct {
	leaves map[int64]*models.LeaveApplication
	nextID int64
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{leaves: map[int64]*models.LeaveApplication{}}
}

func (f *fakeLeaveRepo) Create(_ context.Context, leave *models.LeaveApplication) error {
	f.nextID++
	leave.ID = f.nextID
	// Later submissions get later timestamps so ordering is deterministic
	leave.AppliedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute)
	for i := range leave.Documents {
		leave.Documents[i].ID = int64(i + 1)
		leave.Documents[i].LeaveID = leave.ID
		leave.Documents[i].UploadedAt = leave.AppliedAt
	}
	copied := *leave
	f.leaves[leave.ID] = &copied
	return nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id int64) (*models.LeaveApplication, error) {
	leave, ok := f.leaves[id]
	if !ok {
		return nil, apperrors.ErrLeaveNotFound
	}
	copied := *leave
	return &copied, nil
}

func (f *fakeLeaveRepo) collect(match func(*models.LeaveApplication) bool, oldestFirst bool) []models.LeaveApplication {
	var out []models.LeaveApplication
	for _, l := range f.leaves {
		if match(l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].AppliedAt.Before(out[j].AppliedAt)
		}
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out
}

func paginateLeaves(leaves []models.LeaveApplication, page, size int) ([]models.LeaveApplication, int64) {
	total := int64(len(leaves))
	start := (page - 1) * size
	if start >= len(leaves) {
		return nil, total
	}
	end := start + size
	if end > len(leaves) {
		end = len(leaves)
	}
	return leaves[start:end], total
}

func (f *fakeLeaveRepo) ListByStudent(_ context.Context, studentUserID int64, page, size int, status models.LeaveStatus) ([]models.LeaveApplication, int64, error) {
	out := f.collect(func(l *models.LeaveApplication) bool {
		if l.StudentUserID != studentUserID {
			return false
		}
		return status == "" || l.Status == status
	}, false)
	leaves, total := paginateLeaves(out, page, size)
	return leaves, total, nil
}

func (f *fakeLeaveRepo) ListPendingByDepartment(_ context.Context, department models.Department, page, size int) ([]models.LeaveApplication, int64, error) {
	out := f.collect(func(l *models.LeaveApplication) bool {
		return l.Department == department && l.Status == models.LeaveStatusPending
	}, true)
	leaves, total := paginateLeaves(out, page, size)
	return leaves, total, nil
}

func (f *fakeLeaveRepo) ListByDepartment(_ context.Context, department models.Department, page, size int, filters repositories.LeaveFilters) ([]models.LeaveApplication, int64, error) {
	out := f.collect(func(l *models.LeaveApplication) bool {
		if l.Department != department {
			return false
		}
		if filters.Status != "" && l.Status != filters.Status {
			return false
		}
		if filters.LeaveType != "" && l.LeaveType != filters.LeaveType {
			return false
		}
		if filters.StartFrom != nil && l.StartDate.Before(*filters.StartFrom) {
			return false
		}
		if filters.StartTo != nil && l.StartDate.After(*filters.StartTo) {
			return false
		}
		return true
	}, false)
	leaves, total := paginateLeaves(out, page, size)
	return leaves, total, nil
}

func (f *fakeLeaveRepo) MarkReviewed(_ context.Context, id int64, status models.LeaveStatus, reviewerID int64, reviewerName, comments string, reviewDate time.Time) (bool, error) {
	leave, ok := f.leaves[id]
	if !ok {
		return false, apperrors.ErrLeaveNotFound
	}
	if leave.Status != models.LeaveStatusPending {
		return false, nil
	}
	leave.Status = status
	leave.ReviewedBy = &reviewerID
	leave.ReviewerName = &reviewerName
	leave.ReviewDate = &reviewDate
	leave.Comments = &comments
	return true, nil
}

func (f *fakeLeaveRepo) countWhere(match func(*models.LeaveApplication) bool) models.StatusCounts {
	var counts models.StatusCounts
	for _, l := range f.leaves {
		if !match(l) {
			continue
		}
		counts.Total++
		switch l.Status {
		case models.LeaveStatusPending:
			counts.Pending++
		case models.LeaveStatusApproved:
			counts.Approved++
		case models.LeaveStatusRejected:
			counts.Rejected++
		}
	}
	return counts
}

func (f *fakeLeaveRepo) CountByStudent(_ context.Context, studentUserID int64) (models.StatusCounts, error) {
	return f.countWhere(func(l *models.LeaveApplication) bool { return l.StudentUserID == studentUserID }), nil
}

func (f *fakeLeaveRepo) CountByDepartment(_ context.Context, department models.Department) (models.StatusCounts, error) {
	return f.countWhere(func(l *models.LeaveApplication) bool { return l.Department == department }), nil
}

func (f *fakeLeaveRepo) RecentByStudent(_ context.Context, studentUserID int64, limit int) ([]models.LeaveApplication, error) {
	out := f.collect(func(l *models.LeaveApplication) bool { return l.StudentUserID == studentUserID }, false)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLeaveRepo) OldestPendingByDepartment(_ context.Context, department models.Department, limit int) ([]models.LeaveApplication, error) {
	out := f.collect(func(l *models.LeaveApplication) bool {
		return l.Department == department && l.Status == models.LeaveStatusPending
	}, true)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/auth"
)

// stubUserRepo serves a fixed set of users to the auth middleware
type stubUserRepo struct {
	users map[int64]*models.User
	// lookupErr, when set, is returned from GetByID in place of a result
	lookupErr error
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserRepo) CreateStudent(context.Context, *models.User, *models.Student) error {
	return nil
}
func (s *stubUserRepo) CreateFaculty(context.Context, *models.User, *models.FacultyMember) error {
	return nil
}
func (s *stubUserRepo) CreateAdmin(context.Context, *models.User) error     { return nil }
func (s *stubUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}
func (s *stubUserRepo) EmailExists(context.Context, string) (bool, error)      { return false, nil }
func (s *stubUserRepo) RollNumberExists(context.Context, string) (bool, error) { return false, nil }
func (s *stubUserRepo) EmployeeIDExists(context.Context, string) (bool, error) { return false, nil }
func (s *stubUserRepo) UpdateLastLogin(context.Context, int64) error           { return nil }
func (s *stubUserRepo) UpdateProfile(context.Context, int64, string, string) error {
	return nil
}
func (s *stubUserRepo) UpdateSemester(context.Context, int64, int) error { return nil }
func (s *stubUserRepo) ListStudents(context.Context, int, int, models.Department, int) ([]models.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) ListFaculty(context.Context) ([]models.User, error) { return nil, nil }

func newAuthTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService, *stubUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "college-leave.test",
	})

	repo := &stubUserRepo{users: map[int64]*models.User{
		1: {
			ID: 1, Name: "Ravi", Email: "ravi@college.edu", Role: models.RoleStudent,
			Department: models.DepartmentCSE, IsActive: true,
			Student: &models.Student{RollNumber: "CSE001", Semester: 5},
		},
		2: {
			ID: 2, Name: "Dr. Rao", Email: "rao@college.edu", Role: models.RoleFaculty,
			Department: models.DepartmentCSE, IsActive: true,
			Faculty: &models.FacultyMember{EmployeeID: "FAC001"},
		},
		3: {
			ID: 3, Name: "Gone", Email: "gone@college.edu", Role: models.RoleStudent,
			Department: models.DepartmentCSE, IsActive: false,
		},
	}}

	router := gin.New()
	protected := router.Group("/", JWTAuth(jwtService, repo))
	protected.GET("/whoami", func(c *gin.Context) {
		identity := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID, "role": string(identity.Role)})
	})
	protected.GET("/faculty-only", RolesRequired(models.RoleFaculty), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router, jwtService, repo
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	token, _, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAllowsValidToken(t *testing.T) {
	router, jwtService, repo := newAuthTestRouter(t)
	token := tokenFor(t, jwtService, repo.users[1])

	rec := doRequest(router, "/whoami", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["id"].(float64) != 1 || body["role"] != "student" {
		t.Errorf("identity = %v", body)
	}
}

func TestJWTAuthRejections(t *testing.T) {
	router, jwtService, repo := newAuthTestRouter(t)

	expiredService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: -time.Minute})
	foreignService := auth.NewJWTService(auth.JWTConfig{SecretKey: "other-secret", TokenExp: time.Hour})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + tokenFor(t, expiredService, repo.users[1])},
		{"wrong signature", "Bearer " + tokenFor(t, foreignService, repo.users[1])},
		{"deleted account", "Bearer " + tokenFor(t, jwtService, &models.User{ID: 99, Email: "x@college.edu", Role: models.RoleStudent})},
		{"deactivated account", "Bearer " + tokenFor(t, jwtService, repo.users[3])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, "/whoami", tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestJWTAuthStoreFailure(t *testing.T) {
	router, jwtService, repo := newAuthTestRouter(t)
	token := tokenFor(t, jwtService, repo.users[1])

	// A user lookup failure is a server error, not a bad credential
	repo.lookupErr = errors.New("connection reset by peer")
	rec := doRequest(router, "/whoami", "Bearer "+token)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRolesRequired(t *testing.T) {
	router, jwtService, repo := newAuthTestRouter(t)

	rec := doRequest(router, "/faculty-only", "Bearer "+tokenFor(t, jwtService, repo.users[2]))
	if rec.Code != http.StatusOK {
		t.Errorf("faculty request: status = %d, want 200", rec.Code)
	}

	rec = doRequest(router, "/faculty-only", "Bearer "+tokenFor(t, jwtService, repo.users[1]))
	if rec.Code != http.StatusForbidden {
		t.Errorf("student request: status = %d, want 403", rec.Code)
	}
}

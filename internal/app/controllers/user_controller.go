package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/services"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/middleware"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/helpers"
)

// UserController handles account directory endpoints
type UserController struct {
	userService services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

// ListStudents lists student accounts
// @Summary List students
// @Description Lists student accounts, optionally filtered by department and semester
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param department query string false "Filter by department"
// @Param semester query int false "Filter by semester (1-8)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Students"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Caller is not faculty or admin"
// @Router /users/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	semester := 0
	if s := ctx.Query("semester"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			semester = parsed
		} else {
			semester = -1 // forces the range check to fail
		}
	}

	students, pagination, err := c.userService.ListStudents(ctx.Request.Context(), page, size, ctx.Query("department"), semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      students,
		Pagination: *pagination,
	}, ""))
}

// ListFaculty lists faculty accounts
// @Summary List faculty
// @Description Lists all faculty accounts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Faculty"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Router /users/faculty [get]
func (c *UserController) ListFaculty(ctx *gin.Context) {
	faculty, err := c.userService.ListFaculty(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty, ""))
}

package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/services"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/middleware"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/filestorage"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/helpers"
)

// LeaveController handles leave application endpoints
type LeaveController struct {
	leaveService services.LeaveService
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewLeaveController creates a new LeaveController
func NewLeaveController(leaveService services.LeaveService, storage filestorage.FileStorage, logger zerolog.Logger) *LeaveController {
	return &LeaveController{
		leaveService: leaveService,
		storage:      storage,
		logger:       logger,
	}
}

// Apply submits a new leave application
// @Summary Apply for leave
// @Description Submits a leave application. Accepts JSON, or multipart form data with supporting documents under the "documents" field.
// @Tags leaves
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyLeaveRequest true "Leave application"
// @Success 201 {object} dto.APIResponse{data=dto.LeaveResponse} "Application submitted"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Caller is not a student"
// @Router /leaves/apply [post]
func (c *LeaveController) Apply(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)

	var req dto.ApplyLeaveRequest
	var documents []models.LeaveDocument

	if strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		if err := ctx.ShouldBind(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", dto.HandleBindingError(err)))
			return
		}

		form, err := ctx.MultipartForm()
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("documents", "Could not read uploaded files"))
			return
		}
		stored, err := c.storage.SaveAll(form.File["documents"])
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		for _, sf := range stored {
			documents = append(documents, models.LeaveDocument{
				FileName:     sf.FileName,
				OriginalName: sf.OriginalName,
				MimeType:     sf.MimeType,
				SizeBytes:    sf.Size,
				StoragePath:  sf.Path,
			})
		}
	} else {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", dto.HandleBindingError(err)))
			return
		}
	}

	leave, err := c.leaveService.Submit(ctx.Request.Context(), identity, &req, documents)
	if err != nil {
		// The record was never created, so remove any stored uploads
		for _, doc := range documents {
			_ = c.storage.DeleteFile(doc.StoragePath)
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(leave, "Leave application submitted successfully"))
}

// MyLeaves lists the calling student's applications
// @Summary My leave applications
// @Description Lists the calling student's applications, newest first
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Applications"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Router /leaves/my-leaves [get]
func (c *LeaveController) MyLeaves(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	leaves, pagination, err := c.leaveService.MyLeaves(ctx.Request.Context(), identity, page, size, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      leaves,
		Pagination: *pagination,
	}, ""))
}

// Pending lists unreviewed applications for the reviewer's department
// @Summary Pending leave applications
// @Description Lists unreviewed applications for the reviewer's department, oldest first
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Pending applications"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Caller is not faculty"
// @Router /leaves/pending [get]
func (c *LeaveController) Pending(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	leaves, pagination, err := c.leaveService.Pending(ctx.Request.Context(), identity, page, size, ctx.Query("department"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      leaves,
		Pagination: *pagination,
	}, ""))
}

// All lists the reviewer's department history with filters
// @Summary Department leave history
// @Description Lists all applications for the reviewer's department, newest first, with optional filters
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Param leaveType query string false "Filter by leave type"
// @Param startDate query string false "Only applications starting on or after this date (YYYY-MM-DD)"
// @Param endDate query string false "Only applications starting on or before this date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Applications"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Caller is not faculty"
// @Router /leaves/all [get]
func (c *LeaveController) All(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	filters := services.ListFilters{
		Status:    ctx.Query("status"),
		LeaveType: ctx.Query("leaveType"),
		StartFrom: ctx.Query("startDate"),
		StartTo:   ctx.Query("endDate"),
	}

	leaves, pagination, err := c.leaveService.All(ctx.Request.Context(), identity, page, size, filters)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      leaves,
		Pagination: *pagination,
	}, ""))
}

// Stats returns role-scoped status counts
// @Summary Leave statistics
// @Description Returns total/pending/approved/rejected counts scoped to the caller's role
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.LeaveStatsResponse} "Counts"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Router /leaves/stats [get]
func (c *LeaveController) Stats(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)

	stats, err := c.leaveService.Stats(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// Dashboard returns counts plus a short list for the landing view
// @Summary Dashboard
// @Description Returns status counts plus recent applications (students) or the oldest pending queue (faculty)
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard data"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Router /leaves/dashboard [get]
func (c *LeaveController) Dashboard(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)

	dashboard, err := c.leaveService.Dashboard(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard, ""))
}

// GetByID returns one application
// @Summary Get a leave application
// @Description Returns one application. Students see their own, faculty their department's.
// @Tags leaves
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveResponse} "Application"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Not the owner or wrong department"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /leaves/{id} [get]
func (c *LeaveController) GetByID(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)

	id, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	leave, err := c.leaveService.GetByID(ctx.Request.Context(), identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(leave, ""))
}

// Approve approves a pending application
// @Summary Approve a leave application
// @Description Approves a pending application from the reviewer's department
// @Tags leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Param request body dto.ReviewLeaveRequest false "Optional comments"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveResponse} "Approved application"
// @Failure 400 {object} dto.APIResponse "Already reviewed"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Wrong department or role"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /leaves/{id}/approve [put]
func (c *LeaveController) Approve(ctx *gin.Context) {
	c.review(ctx, c.leaveService.Approve)
}

// Reject rejects a pending application
// @Summary Reject a leave application
// @Description Rejects a pending application; comments are required
// @Tags leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Param request body dto.ReviewLeaveRequest true "Rejection comments"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveResponse} "Rejected application"
// @Failure 400 {object} dto.APIResponse "Already reviewed or missing comments"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Failure 403 {object} dto.APIResponse "Wrong department or role"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /leaves/{id}/reject [put]
func (c *LeaveController) Reject(ctx *gin.Context) {
	c.review(ctx, c.leaveService.Reject)
}

func (c *LeaveController) review(ctx *gin.Context, fn func(context.Context, *models.Identity, int64, string) (*dto.LeaveResponse, error)) {
	identity := middleware.GetIdentity(ctx)

	id, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ReviewLeaveRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", dto.HandleBindingError(err)))
			return
		}
	}

	leave, err := fn(ctx.Request.Context(), identity, id, req.Comments)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(leave, "Leave application reviewed"))
}

// parseIDParam reads the numeric :id path parameter
func parseIDParam(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewValidationError("id", "Invalid leave application ID")
	}
	return id, nil
}

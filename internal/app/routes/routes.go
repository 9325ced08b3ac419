// Package routes wires controllers onto the gin router
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/controllers"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models/dto"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/middleware"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/auth"
)

// Controllers groups everything the router needs
type Controllers struct {
	Auth  *controllers.AuthController
	Leave *controllers.LeaveController
	User  *controllers.UserController
}

// SetupRoutes registers the full API surface under /api
func SetupRoutes(router *gin.Engine, ctrls Controllers, jwtService *auth.JWTService, userRepo repositories.IUserRepository) {
	authRequired := middleware.JWTAuth(jwtService, userRepo)
	studentOnly := middleware.RolesRequired(models.RoleStudent)
	facultyOnly := middleware.RolesRequired(models.RoleFaculty)
	staffOnly := middleware.RolesRequired(models.RoleFaculty, models.RoleAdmin)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
				"status":      "ok",
				"time":        time.Now().Format(time.RFC3339),
				"environment": gin.Mode(),
			}, ""))
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", ctrls.Auth.Register)
			authGroup.POST("/login", ctrls.Auth.Login)
			authGroup.GET("/me", authRequired, ctrls.Auth.Me)
			authGroup.PUT("/profile", authRequired, ctrls.Auth.UpdateProfile)
			authGroup.POST("/logout", authRequired, ctrls.Auth.Logout)
		}

		leaves := api.Group("/leaves", authRequired)
		{
			// Fixed paths must be registered before the :id routes
			leaves.POST("/apply", studentOnly, ctrls.Leave.Apply)
			leaves.GET("/my-leaves", studentOnly, ctrls.Leave.MyLeaves)
			leaves.GET("/pending", facultyOnly, ctrls.Leave.Pending)
			leaves.GET("/all", facultyOnly, ctrls.Leave.All)
			leaves.GET("/stats", ctrls.Leave.Stats)
			leaves.GET("/dashboard", ctrls.Leave.Dashboard)
			leaves.GET("/:id", ctrls.Leave.GetByID)
			leaves.PUT("/:id/approve", facultyOnly, ctrls.Leave.Approve)
			leaves.PUT("/:id/reject", facultyOnly, ctrls.Leave.Reject)
		}

		users := api.Group("/users", authRequired)
		{
			// The faculty directory is readable by any authenticated account
			users.GET("/students", staffOnly, ctrls.User.ListStudents)
			users.GET("/faculty", ctrls.User.ListFaculty)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Route not found"))
	})
}

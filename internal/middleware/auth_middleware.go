// Package middleware contains the gin middleware chain
package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/models"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/app/repositories"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/auth"
)

// identityKey is the gin context key the authenticated identity lives under
const identityKey = "identity"

// JWTAuth validates the bearer token and re-resolves the account on every
// request, so deactivated or deleted accounts lose access immediately even
// while their tokens are still within their lifetime.
func JWTAuth(jwtService *auth.JWTService, userRepo repositories.IUserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// A token whose subject no longer exists is rejected; anything
			// else is a store failure, not an authentication failure
			if errors.Is(err, apperrors.ErrUserNotFound) {
				err = apperrors.ErrTokenInvalid
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		if !user.IsActive {
			HandleAPIError(c, apperrors.ErrAccountDeactivated)
			c.Abort()
			return
		}

		identity := &models.Identity{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			Department: user.Department,
		}
		if user.Student != nil {
			identity.RollNumber = user.Student.RollNumber
			identity.Semester = user.Student.Semester
		}
		if user.Faculty != nil {
			identity.EmployeeID = user.Faculty.EmployeeID
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RolesRequired allows only the listed roles past. It must run after JWTAuth.
func RolesRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			HandleAPIError(c, apperrors.ErrTokenNotFound)
			c.Abort()
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.NewForbiddenError("You do not have permission to access this resource"))
		c.Abort()
	}
}

// GetIdentity returns the authenticated identity, or nil outside JWTAuth
func GetIdentity(c *gin.Context) *models.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

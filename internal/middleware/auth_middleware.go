package middleware

import (
	"net/http"
	"strings"

	"brewery_backend/internal/models"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextEmployeeID = "employeeID"
	ContextName       = "employeeName"
	ContextEmail      = "employeeEmail"
	ContextRole       = "userRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextName, claims.Name)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware allows the request through only when the session role is one of allowedRoles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims.", ""))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(role, r) {
				c.Next()
				return
			}
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource. Required roles: "+strings.Join(allowedRoles, ", "), ""))
	}
}

// SessionFromContext rebuilds the authenticated session set by AuthMiddleware.
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	id, ok := c.Get(ContextEmployeeID)
	if !ok {
		return nil, false
	}
	employeeID, ok := id.(int64)
	if !ok {
		return nil, false
	}
	return &models.Session{
		EmployeeID: employeeID,
		Name:       c.GetString(ContextName),
		Email:      c.GetString(ContextEmail),
		Role:       c.GetString(ContextRole),
	}, true
}

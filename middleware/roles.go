package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dipkrao/ECommerce-Backend/utils"
)

type RoleMiddleware struct{}

func NewRoleMiddleware() *RoleMiddleware {
	return &RoleMiddleware{}
}

func (r *RoleMiddleware) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			utils.RespondWithError(c, http.StatusUnauthorized, "User role not found")
			c.Abort()
			return
		}

		hasRole := false
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				hasRole = true
				break
			}
		}

		if !hasRole {
			utils.RespondWithError(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (r *RoleMiddleware) AdminGuard() gin.HandlerFunc {
	return r.RequireRole("admin")
}

// Helper function to check if user is admin
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == "admin"
}

package middleware

import (
	"net/http"
	"strings"

	"slotify/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by Identify.
const (
	ContextCustomerID = "customerID"
	ContextTenantID   = "tenantID"
	ContextRole       = "role"
)

// Identify resolves the caller's identity. A valid bearer token binds the
// customer and tenant from its claims; without one the caller is a guest and
// the tenant comes from the X-Tenant-ID header. A present-but-invalid token is
// rejected rather than silently downgraded to guest.
func Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				utils.JSONError(c, http.StatusUnauthorized, "Invalid authorization header", "Expected 'Bearer <token>'")
				return
			}
			customerID, tenantID, role, err := utils.ExtractPrincipal(tokenString)
			if err != nil {
				utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", err.Error())
				return
			}
			c.Set(ContextCustomerID, customerID)
			c.Set(ContextTenantID, tenantID)
			c.Set(ContextRole, role)
			c.Next()
			return
		}
		if tenant := c.GetHeader("X-Tenant-ID"); tenant != "" {
			c.Set(ContextTenantID, tenant)
		}
		c.Next()
	}
}

// RequireTenant rejects requests with no resolved tenant scope.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextTenantID) == "" {
			utils.JSONError(c, http.StatusBadRequest, "Missing tenant", "Provide a bearer token or the X-Tenant-ID header")
			return
		}
		c.Next()
	}
}

// RequireCustomer rejects guests; used for endpoints tied to an account.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextCustomerID) == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"ceygo/services/auth"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AdminAuthMiddleware.
const (
	AdminEmailKey = "adminEmail"
	ClaimsKey     = "sessionClaims"
)

// AdminAuthMiddleware requires a bearer session token issued by the login endpoint and
// still live in the session store.
func AdminAuthMiddleware(authService auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondError(c, "Unauthorized", err)
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(AdminEmailKey, claims.Subject)
		c.Next()
	}
}

// AdminEmail returns the authenticated admin, or "" outside AdminAuthMiddleware.
func AdminEmail(c *gin.Context) string {
	return c.GetString(AdminEmailKey)
}

// SessionClaims returns the claims stored by AdminAuthMiddleware.
func SessionClaims(c *gin.Context) (*utils.SessionClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.SessionClaims)
	return claims, ok
}

package middleware

import (
	"errors"
	"strings"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/auth"
	"github.com/gin-gonic/gin"
)

const adminSubjectKey = "admin_subject"

// RequireAdmin admits only requests bearing a valid admin token
func RequireAdmin(tokens *auth.TokenManager, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			AbortWithError(c, errs.NewUnauthorizedError(errors.New("missing bearer token")))
			return
		}

		claims, err := tokens.RequireRole(strings.TrimSpace(token), auth.RoleAdmin)
		if err != nil {
			logger.Warn("Admin request rejected", map[string]any{
				"error":          err.Error(),
				"path":           c.Request.URL.Path,
				"correlation_id": CorrelationID(c),
			})
			AbortWithError(c, errs.NewUnauthorizedError(err))
			return
		}

		c.Set(adminSubjectKey, claims.Subject)
		c.Next()
	}
}

// AdminSubject returns the subject of the admin token, or ""
func AdminSubject(c *gin.Context) string {
	return c.GetString(adminSubjectKey)
}

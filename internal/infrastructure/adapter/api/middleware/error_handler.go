package middleware

import (
	"fmt"
	"net/http"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers from panics and returns an INTERNAL_ERROR envelope
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":          fmt.Sprint(rec),
					"path":           c.Request.URL.Path,
					"method":         c.Request.Method,
					"client_ip":      c.ClientIP(),
					"correlation_id": CorrelationID(c),
				})

				AbortWithError(c, errs.ErrInternal)
			}
		}()

		c.Next()
	}
}

// AbortWithError writes the error envelope for err and stops the chain
func AbortWithError(c *gin.Context, err error) {
	status, body := dto.NewErrorResponse(err, CorrelationID(c))
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// NotFound answers unknown routes with the error envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewRawErrorResponse(
			http.StatusNotFound, "NOT_FOUND", "Route not found.", CorrelationID(c),
		))
	}
}

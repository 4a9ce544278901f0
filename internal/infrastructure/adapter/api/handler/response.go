package handler

import (
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes the error envelope. Expected rejections are logged at
// debug level; anything unclassified is an error.
func respondError(c *gin.Context, logger coreport.Logger, operation string, err error) {
	fields := map[string]any{
		"operation":      operation,
		"error":          err.Error(),
		"error_code":     string(errs.KindOf(err)),
		"correlation_id": middleware.CorrelationID(c),
	}
	if errs.IsRejection(err) {
		logger.Debug("Request rejected", fields)
	} else {
		logger.Error("Request failed", fields)
	}

	middleware.AbortWithError(c, err)
}

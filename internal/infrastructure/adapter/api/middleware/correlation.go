package middleware

import (
	"strings"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/gin-gonic/gin"
)

// Correlation headers
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// maxInboundIDLength bounds caller-supplied ids
const maxInboundIDLength = 128

const correlationKey = "correlation_id"

// Correlation assigns every request a correlation id. A well-formed
// X-Correlation-ID or X-Request-ID header is reused; otherwise a new id is
// generated. The id is echoed in the response and stored in the request
// context for the purchase core.
func Correlation(idGenerator coreport.IDGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := inboundID(c.GetHeader(HeaderCorrelationID))
		if id == "" {
			id = inboundID(c.GetHeader(HeaderRequestID))
		}
		if id == "" {
			id = idGenerator.NewID()
		}

		c.Set(correlationKey, id)
		c.Request = c.Request.WithContext(coreport.WithCorrelationID(c.Request.Context(), id))
		c.Header(HeaderCorrelationID, id)

		c.Next()
	}
}

// CorrelationID returns the id assigned by Correlation, or ""
func CorrelationID(c *gin.Context) string {
	return c.GetString(correlationKey)
}

func inboundID(raw string) string {
	id := strings.TrimSpace(raw)
	if len(id) > maxInboundIDLength {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}

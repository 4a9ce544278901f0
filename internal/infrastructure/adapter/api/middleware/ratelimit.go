package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/gin-gonic/gin"
)

// Limiter decides whether one more request for key fits in its window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyFunc derives the throttling key of a request
type KeyFunc func(c *gin.Context) string

// maxPeekBody bounds how much of a request body PurchaseKey reads
const maxPeekBody = 64 << 10

// RateLimit rejects requests over the limiter's budget with RATE_LIMIT_EXCEEDED.
// A failing limiter lets the request through.
func RateLimit(limiter Limiter, keyFunc KeyFunc, retryAfter time.Duration, logger coreport.Logger) gin.HandlerFunc {
	retryAfterSeconds := strconv.Itoa(int(math.Ceil(retryAfter.Seconds())))

	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", map[string]any{
				"key":            key,
				"error":          err.Error(),
				"correlation_id": CorrelationID(c),
			})
			c.Next()
			return
		}

		if !allowed {
			logger.Debug("Request throttled", map[string]any{
				"key":            key,
				"path":           c.Request.URL.Path,
				"correlation_id": CorrelationID(c),
			})
			c.Header("Retry-After", retryAfterSeconds)
			AbortWithError(c, errs.NewRateLimitError())
			return
		}

		c.Next()
	}
}

// ClientIPKey throttles by client address
func ClientIPKey(prefix string) KeyFunc {
	return func(c *gin.Context) string {
		return prefix + "ip:" + c.ClientIP()
	}
}

// PurchaseKey throttles by the userId in the JSON body, falling back to the
// client address when the body carries no usable id. The body is restored
// for the handler.
func PurchaseKey(prefix string) KeyFunc {
	return func(c *gin.Context) string {
		if userID := peekUserID(c); userID != "" {
			return prefix + "user:" + userID
		}
		return prefix + "ip:" + c.ClientIP()
	}
}

func peekUserID(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBody))
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err != nil {
		return ""
	}

	var req struct {
		UserID any `json:"userId"`
	}
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		return ""
	}
	userID, ok := req.UserID.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(userID)
}

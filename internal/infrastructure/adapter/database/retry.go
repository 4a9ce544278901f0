package database

import (
	"context"
	"math/rand/v2"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
)

// RetryPolicy bounds how startup dependencies (ledger, redis) are dialled
// again after a failed attempt. Backoff doubles per attempt up to MaxDelay.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    float64 // share of the delay added at random, 0 disables
}

// DefaultRetryPolicy is used when configuration leaves retry settings unset
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  5,
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  2 * time.Second,
		Jitter:    0.2,
	}
}

// Do calls dial until it succeeds. It gives up early when retryable
// rejects the error or ctx ends; the last error is returned.
func (p RetryPolicy) Do(ctx context.Context, what string, dial func() error, retryable func(error) bool, log coreport.Logger) error {
	attempts := max(p.Attempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if err = dial(); err == nil {
			return nil
		}
		if attempt == attempts || !retryable(err) {
			break
		}

		wait := p.delay(attempt - 1)
		log.Warn("Dependency unavailable, retrying", map[string]any{
			"dependency": what,
			"attempt":    attempt,
			"attempts":   attempts,
			"wait":       wait.String(),
			"error":      err.Error(),
		})

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	log.Error("Dependency unavailable, giving up", map[string]any{
		"dependency": what,
		"attempts":   attempts,
		"error":      err.Error(),
	})
	return err
}

// delay returns the wait before retry n (0-based)
func (p RetryPolicy) delay(n int) time.Duration {
	d := p.BaseDelay << uint(n)
	if p.MaxDelay > 0 && (d <= 0 || d > p.MaxDelay) {
		d = p.MaxDelay
	}
	if p.Jitter > 0 {
		d += time.Duration(float64(d) * p.Jitter * rand.Float64())
	}
	return d
}

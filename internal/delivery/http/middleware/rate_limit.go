package middleware

import (
	"strconv"
	"time"

	"contact-sms-relay/pkg/apperror"
	"contact-sms-relay/pkg/logger"
	"contact-sms-relay/pkg/metrics"
	"contact-sms-relay/pkg/ratelimit"
	"contact-sms-relay/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitedMessage is the body message of a 429 response.
const RateLimitedMessage = "Too many requests, please try again later."

// RateLimitOptions configures the rate limit middleware.
type RateLimitOptions struct {
	// Custom key extractor (default: client IP)
	KeyFunc  func(*gin.Context) string
	Security *security.SecurityLogger
	Metrics  *metrics.Metrics
}

// RateLimitMiddleware counts every request against its client's window and
// rejects it with 429 once the window budget is spent. The rejection is
// rendered by ErrorHandler.
func RateLimitMiddleware(limiter ratelimit.Limiter, opts RateLimitOptions) gin.HandlerFunc {
	keyFunc := opts.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			// Fail open for availability
			logger.Log.Warn("rate limiter unavailable", "error", err, "request_id", GetRequestID(c))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if decision.Allowed {
			c.Next()
			return
		}

		retryAfter := decision.RetryAfter(time.Now())
		c.Header("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))

		opts.Security.LogRateLimitTriggered(
			c.Request.Context(),
			c.ClientIP(),
			c.GetHeader("User-Agent"),
			GetRequestID(c),
			c.FullPath(),
		)
		if opts.Metrics != nil {
			opts.Metrics.ObserveRateLimited()
		}

		c.Error(apperror.TooManyRequests(RateLimitedMessage))
		c.Abort()
	}
}

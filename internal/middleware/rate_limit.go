package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/logger"
	"github.com/yigit/questionbank/internal/pkg/ratelimit"
)

// RateLimit counts requests per client address under scope and rejects the
// ones over limit with 429
func RateLimit(limiter ratelimit.Limiter, scope string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP(), limit)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := decision.RetryAfter(time.Now().UTC())
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			logger.Warn().Str("scope", scope).Str("clientIP", c.ClientIP()).Int("count", decision.Count).Msg("Rate limit exceeded")
			HandleAPIError(c, apperrors.NewTooManyRequestsError("Too many attempts, please try again later"))
			return
		}
		c.Next()
	}
}

package helpers

import (
	"time"

	"github.com/yigit/questionbank/internal/pkg/logger"
)

// ParseDuration parses a configured lifetime or window. Unparsable and
// non-positive values fall back to defaultDuration.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("duration", durationStr).Dur("default", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	case duration <= 0:
		logger.Warn().Str("duration", durationStr).Dur("default", defaultDuration).Msg("Duration must be positive, using default")
		return defaultDuration
	}
	return duration
}

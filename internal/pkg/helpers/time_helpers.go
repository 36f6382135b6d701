package helpers

import (
	"time"

	"github.com/huddlesocial/huddle/internal/pkg/logger"
)

// ParseDuration parses durationStr, logging and returning defaultDuration when it is invalid.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		logger.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

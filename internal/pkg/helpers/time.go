package helpers

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns the default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// LocalMidnight truncates t to the start of its day in t's location.
func LocalMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// InclusiveDays returns the inclusive day span between start and end, both
// taken at local midnight. start == end yields 1. Rounding keeps the count
// stable across daylight saving transitions, where a day is 23 or 25 hours.
func InclusiveDays(start, end time.Time) int {
	s := LocalMidnight(start)
	e := LocalMidnight(end)
	return int(math.Round(e.Sub(s).Hours()/24)) + 1
}

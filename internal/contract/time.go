package contract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units]".
var durationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute|second)s?$`)

// ParseDuration converts strings like "90 days" or "2s" into a time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to human-readable formats.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return d, nil
	}

	matches := durationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %q", s)
	}

	// 1: Value (e.g., "90")
	// 2: Unit (e.g., "day")
	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %w", err)
	}
	var unit time.Duration
	switch matches[2] {
	case "year":
		unit = 365 * 24 * time.Hour
	case "month":
		unit = 30 * 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	case "day":
		unit = 24 * time.Hour
	case "hour":
		unit = time.Hour
	case "minute":
		unit = time.Minute
	default:
		unit = time.Second
	}

	if value == 0 {
		return 0, errors.New("duration must be positive")
	}
	if value > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("duration %q is too large", s)
	}
	return time.Duration(value) * unit, nil
}

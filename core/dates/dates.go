// Package dates normalizes loosely formatted date values to UTC midnight
// and decodes the tick timestamps carried by change-log entries.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Day is the length of one calendar day in UTC.
const Day = 24 * time.Hour

// ticksPerMilli converts 100ns ticks to milliseconds.
const ticksPerMilli = 10_000

// Midnight truncates t to 00:00 of its UTC calendar day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns floor((today - target) / 24h). Negative values mean target is later than today.
func DaysBetween(today, target time.Time) int {
	d := today.Sub(target)
	days := d / Day
	if d%Day < 0 {
		days--
	}
	return int(days)
}

// Normalize converts a date value to UTC midnight.
// It accepts time.Time, *time.Time and text; nil, empty and unparseable values return false.
func Normalize(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return Midnight(t), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return Midnight(*t), true
	case string:
		return ParseText(t)
	case *string:
		if t == nil {
			return time.Time{}, false
		}
		return ParseText(*t)
	default:
		return time.Time{}, false
	}
}

// ParseText parses date text. A bare YYYY-MM-DD is read field by field and must be
// a real calendar date; anything else, datetimes included, goes through generic parsing
// and lands on the UTC calendar day of the instant.
func ParseText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if isISODate(s) {
		return parseISODate(s)
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return Midnight(t), true
}

// isISODate reports whether s is exactly NNNN-NN-NN.
func isISODate(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := range 10 {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseISODate(s string) (time.Time, bool) {
	year, err1 := strconv.Atoi(s[0:4])
	month, err2 := strconv.Atoi(s[5:7])
	day, err3 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date rolls over invalid days, e.g. Feb 30 becomes Mar 2
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DecodeTicks converts a 17-digit tick count (100ns units since the Unix epoch)
// into a UTC instant with millisecond precision.
func DecodeTicks(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	ticks, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ticks <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ticks / ticksPerMilli).UTC(), true
}

// EncodeTicks is the inverse of DecodeTicks, truncated to millisecond precision.
func EncodeTicks(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli()*ticksPerMilli, 10)
}

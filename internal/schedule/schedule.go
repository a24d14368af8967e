// Package schedule holds the calendar arithmetic shared by analytics and
// reminder evaluation: flexible date parsing, course windows and day keys.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/suryard0605/medtrack/internal"
)

const dayFormat = "2006-01-02"

// ParseFlexibleDate accepts a calendar date as either DD/MM/YYYY or
// YYYY-MM-DD and returns it anchored to local midnight. Anchoring locally
// (never UTC) keeps day arithmetic from shifting across timezones.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", internal.ErrInvalidDateFormat)
	}
	var day, month, year int
	switch {
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
		var err error
		if day, err = strconv.Atoi(parts[0]); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
		if month, err = strconv.Atoi(parts[1]); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
		if year, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		if len(parts) != 3 {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
		var err error
		if year, err = strconv.Atoi(parts[0]); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
		if month, err = strconv.Atoi(parts[1]); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
		if day, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
		}
	default:
		return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes out-of-range components (e.g. 31/02) instead of
	// rejecting them; treat any normalization as a bad date.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDateFormat, s)
	}
	return t, nil
}

// ComputeEndDate returns start plus durationDays calendar days as YYYY-MM-DD.
// AddDate handles month, year and leap-day boundaries; a zero duration yields
// the start date itself (single-day course).
func ComputeEndDate(start time.Time, durationDays int) string {
	return start.AddDate(0, 0, durationDays).Format(dayFormat)
}

// ParseClockTime parses an "HH:MM" reminder slot. Seconds are not part of the
// schedule model.
func ParseClockTime(hhmm string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: clock time %q", internal.ErrInvalidDateFormat, hhmm)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: clock time %q", internal.ErrInvalidDateFormat, hhmm)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: clock time %q", internal.ErrInvalidDateFormat, hhmm)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: clock time %q", internal.ErrInvalidDateFormat, hhmm)
	}
	return hour, minute, nil
}

// IsClockTimeNow reports whether now falls in the minute named by hhmm.
// Malformed clock times never match.
func IsClockTimeNow(hhmm string, now time.Time) bool {
	hour, minute, err := ParseClockTime(hhmm)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}

// DayKey returns the local calendar-day identifier (YYYY-MM-DD) used to group
// logs and derive notification ids. Two timestamps on the same local day map
// to the same key regardless of time of day.
func DayKey(t time.Time) string {
	return t.Format(dayFormat)
}

// SameDay reports whether two timestamps fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// SlotBefore reports whether the slot's clock time on now's day has already
// passed. Malformed slots are treated as not passed.
func SlotBefore(hhmm string, now time.Time) bool {
	hour, minute, err := ParseClockTime(hhmm)
	if err != nil {
		return false
	}
	slot := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return slot.Before(now)
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleDate_BothFormats(t *testing.T) {
	slash, err := ParseFlexibleDate("15/01/2026")
	assert.NoError(t, err)
	iso, err := ParseFlexibleDate("2026-01-15")
	assert.NoError(t, err)
	assert.True(t, slash.Equal(iso))
	assert.Equal(t, 2026, slash.Year())
	assert.Equal(t, time.January, slash.Month())
	assert.Equal(t, 15, slash.Day())
	// anchored to local midnight
	assert.Equal(t, 0, slash.Hour())
	assert.Equal(t, time.Local, slash.Location())
}

func TestParseFlexibleDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "banana", "2026/01/15/extra", "15-01", "31/02/2026", "00/01/2026", "01/13/2026"} {
		_, err := ParseFlexibleDate(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestComputeEndDate(t *testing.T) {
	start, _ := ParseFlexibleDate("2026-01-15")
	assert.Equal(t, "2026-01-22", ComputeEndDate(start, 7))
	// zero duration is a single-day course
	assert.Equal(t, "2026-01-15", ComputeEndDate(start, 0))
}

func TestComputeEndDate_LeapDay(t *testing.T) {
	leap, _ := ParseFlexibleDate("28/02/2024")
	assert.Equal(t, "2024-02-29", ComputeEndDate(leap, 1))
	assert.Equal(t, "2024-03-01", ComputeEndDate(leap, 2))

	nonLeap, _ := ParseFlexibleDate("28/02/2023")
	assert.Equal(t, "2023-03-01", ComputeEndDate(nonLeap, 1))
}

func TestParseClockTime(t *testing.T) {
	h, m, err := ParseClockTime("08:30")
	assert.NoError(t, err)
	assert.Equal(t, 8, h)
	assert.Equal(t, 30, m)

	for _, s := range []string{"", "8", "25:00", "12:60", "ab:cd"} {
		_, _, err := ParseClockTime(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestIsClockTimeNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 45, 0, time.Local)
	assert.True(t, IsClockTimeNow("08:30", now))
	assert.False(t, IsClockTimeNow("08:31", now))
	assert.False(t, IsClockTimeNow("not-a-time", now))
}

func TestSlotBefore(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 30, 0, time.Local)
	assert.True(t, SlotBefore("08:00", now))
	assert.False(t, SlotBefore("18:00", now))
	assert.False(t, SlotBefore("garbage", now))
}

func TestDayKey(t *testing.T) {
	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.Local)
	night := time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2026-03-10", DayKey(morning))
	assert.Equal(t, DayKey(morning), DayKey(night))
	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(morning, night.Add(time.Minute)))
}

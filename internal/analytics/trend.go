package analytics

import (
	"sort"
	"time"

	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/schedule"
)

type TrendPoint struct {
	Date   string `json:"date"` // YYYY-MM-DD, local
	Taken  int    `json:"taken"`
	Missed int    `json:"missed"`
	Total  int    `json:"total"`
}

// DefaultTrendWindowDays is the trailing window used when the caller does not
// ask for one.
const DefaultTrendWindowDays = 30

// BuildTrends buckets a subject's logs from the trailing windowDays by local
// calendar day, ascending by date. Days with no activity produce no point,
// so the series is sparse.
func BuildTrends(logs []internal.DoseLog, memberID string, now time.Time, windowDays int) []TrendPoint {
	if windowDays <= 0 {
		windowDays = DefaultTrendWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	type bucket struct{ taken, missed int }
	days := make(map[string]*bucket)
	for _, l := range logs {
		if l.MemberID != memberID || l.Time.Before(cutoff) {
			continue
		}
		key := schedule.DayKey(l.Time)
		b := days[key]
		if b == nil {
			b = &bucket{}
			days[key] = b
		}
		switch l.Status {
		case internal.StatusTaken:
			b.taken++
		case internal.StatusMissed:
			b.missed++
		}
	}

	points := make([]TrendPoint, 0, len(days))
	for date, b := range days {
		points = append(points, TrendPoint{
			Date:   date,
			Taken:  b.taken,
			Missed: b.missed,
			Total:  b.taken + b.missed,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

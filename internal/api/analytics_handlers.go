package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal/analytics"
	"github.com/suryard0605/medtrack/internal/schedule"
	"github.com/suryard0605/medtrack/internal/service"
)

// GetAnalytics returns one adherence report per subject. start_date and
// end_date (both required together) bound which logs count, inclusive; the
// end bound covers the whole end day.
func GetAnalytics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var rng *analytics.DateRange
		startStr, endStr := c.Query("start_date"), c.Query("end_date")
		if (startStr == "") != (endStr == "") {
			HandleError(c, app.Logger(), errors.New("start_date and end_date must be supplied together"), 400, "Invalid date range")
			return
		}
		if startStr != "" {
			start, err := schedule.ParseFlexibleDate(startStr)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid start_date")
				return
			}
			end, err := schedule.ParseFlexibleDate(endStr)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid end_date")
				return
			}
			rng = &analytics.DateRange{
				Start: start,
				End:   end.AddDate(0, 0, 1).Add(-time.Nanosecond),
			}
		}

		reports, err := service.GetAnalytics(c.Request.Context(), app.Members(), app.Medicines(), app.DoseLogs(), user, rng)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to compute analytics")
			return
		}
		HandleSuccess(c, app.Logger(), reports, nil)
	}
}

// GetTrends returns the daily taken/missed series for one subject over a
// trailing window (?days=N, default 30). The subject path param is a member
// id or "main".
func GetTrends(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		days := analytics.DefaultTrendWindowDays
		if v := c.Query("days"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				HandleError(c, app.Logger(), errors.New("days must be a positive integer"), 400, "Invalid window")
				return
			}
			days = parsed
		}

		points, err := service.GetTrends(c.Request.Context(), app.DoseLogs(), user, c.Param("subjectId"), days, time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to compute trends")
			return
		}
		HandleSuccess(c, app.Logger(), points, nil)
	}
}

package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/service"
	"github.com/suryard0605/medtrack/internal/storage"
)

func PostDoseLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.DoseLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateDoseLogRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Dose log validation failed")
			return
		}

		log, err := service.CreateDoseLog(c.Request.Context(), app.DoseLogs(), app.Medicines(), user, &req)
		if err != nil {
			status := 500
			if errors.Is(err, internal.ErrMissingReference) {
				status = 400
			}
			HandleError(c, app.Logger(), err, status, "Failed to save dose log")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

// ListDoseLogs supports the filters the dashboard uses: medicine_id narrows
// to one medicine, from bounds the range (RFC 3339), newest first.
func ListDoseLogs(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		filter := storage.DoseLogFilter{
			UserID:     user.ID,
			MedicineID: c.Query("medicine_id"),
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid 'from' timestamp")
				return
			}
			filter.From = t
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid 'to' timestamp")
				return
			}
			filter.To = t
		}

		logs, err := app.DoseLogs().ListDoseLogs(c.Request.Context(), filter)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch dose logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, nil)
	}
}

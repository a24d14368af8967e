package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/reminder"
	"github.com/suryard0605/medtrack/internal/service"
)

// GetNotifications evaluates the account's schedule and returns every active
// notification. ?scan_missed=true additionally sweeps today's already-passed
// slots; clients do that once per session.
func GetNotifications(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		meds, err := app.Medicines().ListMedicines(c.Request.Context(), user.ID, nil)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to list medicines")
			return
		}
		scanMissed := c.Query("scan_missed") == "true"
		active := app.Reminders().ActiveNotifications(c.Request.Context(), user.ID, meds, time.Now(), scanMissed)
		HandleSuccess(c, app.Logger(), active, map[string]any{"count": len(active)})
	}
}

type NotificationActionRequest struct {
	Action string `json:"action" validate:"required,oneof=taken skipped refill cured"`
	Days   int    `json:"days,omitempty"`
}

// PostNotificationAction resolves one notification. taken/skipped append a
// dose log, refill extends the course, cured deletes the medicine; in every
// case the acted medicine's other notifications resolve with it.
func PostNotificationAction(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		now := time.Now()

		var req NotificationActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		action := reminder.Action(req.Action)
		if !reminder.ValidAction(action) {
			HandleError(c, app.Logger(), fmt.Errorf("unknown action %q", req.Action), 400, "Invalid action")
			return
		}

		acted, ok := app.Reminders().Act(c.Request.Context(), user.ID, c.Param("id"), now)
		if !ok {
			HandleError(c, app.Logger(), errors.New("notification is not active"), 404, "Notification not found")
			return
		}

		ctx := c.Request.Context()
		switch action {
		case reminder.ActionTaken, reminder.ActionSkipped:
			status := internal.StatusTaken
			if action == reminder.ActionSkipped {
				status = internal.StatusMissed
			}
			log, err := service.CreateDoseLog(ctx, app.DoseLogs(), app.Medicines(), user, &service.DoseLogRequest{
				MedicineID: acted.MedicineID,
				Status:     status,
				Time:       now,
			})
			if err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to record dose")
				return
			}
			HandleSuccess(c, app.Logger(), log, nil)
		case reminder.ActionRefill:
			days := req.Days
			if days <= 0 {
				days = reminder.DefaultRefillDays
			}
			med, err := service.RefillMedicine(ctx, app.Medicines(), acted.MedicineID, days)
			if err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to refill medicine")
				return
			}
			HandleSuccess(c, app.Logger(), med, nil)
		case reminder.ActionCured:
			if err := service.CureMedicine(ctx, app.Medicines(), acted.MedicineID); err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to end course")
				return
			}
			HandleSuccess(c, app.Logger(), gin.H{"deleted": acted.MedicineID}, nil)
		}
	}
}

// PostDismissAll clears the account's notification panel. Dismissal is
// permanent: the ids go into the dismissed set and never rematerialize.
func PostDismissAll(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		app.Reminders().DismissAll(c.Request.Context(), user.ID)
		HandleSuccess(c, app.Logger(), gin.H{"dismissed": true}, nil)
	}
}

package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/service"
)

func PostMedicine(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.MedicineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateMedicineRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Medicine validation failed")
			return
		}

		med, err := service.CreateMedicine(c.Request.Context(), app.Medicines(), user, &req)
		if err != nil {
			status := 500
			if errors.Is(err, internal.ErrInvalidDateFormat) {
				status = 400
			}
			HandleError(c, app.Logger(), err, status, "Failed to save medicine")
			return
		}

		service.AnnounceMedicine(c.Request.Context(), app.Users(), app.Members(), app.Notifier(), med, app.Logger())
		HandleSuccess(c, app.Logger(), med, nil)
	}
}

func ListMedicines(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var memberID *string
		if v, ok := c.GetQuery("member_id"); ok {
			memberID = &v
		}
		meds, err := app.Medicines().ListMedicines(c.Request.Context(), user.ID, memberID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch medicines")
			return
		}
		HandleSuccess(c, app.Logger(), meds, nil)
	}
}

// GetDueMedicines lists the medicines with a reminder slot in the current
// minute.
func GetDueMedicines(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		meds, err := app.Medicines().ListMedicines(c.Request.Context(), user.ID, nil)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch medicines")
			return
		}
		HandleSuccess(c, app.Logger(), service.DueMedicines(meds, time.Now()), nil)
	}
}

func ownedMedicine(c *gin.Context, app App) (string, bool) {
	user := currentUser(c)
	id := c.Param("id")
	med, err := app.Medicines().GetMedicine(c.Request.Context(), id)
	if err != nil || med.UserID != user.ID {
		if err == nil {
			err = errors.New("medicine belongs to another account")
		}
		HandleError(c, app.Logger(), err, 404, "Medicine not found")
		return "", false
	}
	return id, true
}

func PutMedicine(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ownedMedicine(c, app)
		if !ok {
			return
		}

		var req service.MedicineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateMedicineRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Medicine validation failed")
			return
		}

		med, err := service.UpdateMedicine(c.Request.Context(), app.Medicines(), id, &req)
		if err != nil {
			status := 500
			if errors.Is(err, internal.ErrInvalidDateFormat) {
				status = 400
			}
			HandleError(c, app.Logger(), err, status, "Failed to update medicine")
			return
		}
		HandleSuccess(c, app.Logger(), med, nil)
	}
}

type RefillRequest struct {
	Days int `json:"days"`
}

func PostRefill(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ownedMedicine(c, app)
		if !ok {
			return
		}

		var req RefillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if req.Days <= 0 {
			HandleError(c, app.Logger(), errors.New("days must be positive"), 400, "Refill validation failed")
			return
		}

		med, err := service.RefillMedicine(c.Request.Context(), app.Medicines(), id, req.Days)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to refill medicine")
			return
		}
		HandleSuccess(c, app.Logger(), med, nil)
	}
}

func DeleteMedicine(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ownedMedicine(c, app)
		if !ok {
			return
		}
		if err := service.CureMedicine(c.Request.Context(), app.Medicines(), id); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to delete medicine")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"message": "Medicine deleted successfully"}, nil)
	}
}

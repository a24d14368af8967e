package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/storage"
)

type DoseLogRequest struct {
	MedicineID string    `json:"medicine_id" validate:"required"`
	Status     string    `json:"status,omitempty" validate:"omitempty,oneof=taken missed"`
	Time       time.Time `json:"time,omitempty"`
}

func ValidateDoseLogRequest(req *DoseLogRequest) error {
	return validate.Struct(req)
}

// CreateDoseLog appends a taken/missed event. The medicine must still exist,
// and the log inherits its subject so analytics matching stays exact. Status
// defaults to taken and the timestamp to now.
func CreateDoseLog(ctx context.Context, logs storage.DoseLogRepository, medicines storage.MedicineRepository, user *internal.User, req *DoseLogRequest) (*internal.DoseLog, error) {
	med, err := medicines.GetMedicine(ctx, req.MedicineID)
	if err != nil {
		return nil, fmt.Errorf("%w: medicine %s", internal.ErrMissingReference, req.MedicineID)
	}
	if med.UserID != user.ID {
		return nil, fmt.Errorf("%w: medicine %s", internal.ErrMissingReference, req.MedicineID)
	}

	status := req.Status
	if status == "" {
		status = internal.StatusTaken
	}
	when := req.Time
	if when.IsZero() {
		when = time.Now()
	}

	log := &internal.DoseLog{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		MemberID:   med.MemberID,
		MedicineID: med.ID,
		Status:     status,
		Time:       when,
	}
	if err := logs.SaveDoseLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

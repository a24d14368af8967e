package reminder

import (
	"context"
	"time"

	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/storage"
)

// StoreLogChecker answers log-existence queries against the dose log store.
type StoreLogChecker struct {
	logs storage.DoseLogRepository
}

func NewStoreLogChecker(logs storage.DoseLogRepository) *StoreLogChecker {
	return &StoreLogChecker{logs: logs}
}

func (c *StoreLogChecker) HasLog(ctx context.Context, userID, medicineID string, day time.Time, takenOnly bool) (bool, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	logs, err := c.logs.ListDoseLogs(ctx, storage.DoseLogFilter{
		UserID:     userID,
		MedicineID: medicineID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return false, err
	}
	for _, l := range logs {
		if !takenOnly || l.Status == internal.StatusTaken {
			return true, nil
		}
	}
	return false, nil
}

var _ LogChecker = (*StoreLogChecker)(nil)

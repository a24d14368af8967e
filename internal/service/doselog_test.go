package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/storage"
)

type fakeDoseLogs struct {
	logs []internal.DoseLog
}

func (f *fakeDoseLogs) SaveDoseLog(ctx context.Context, log *internal.DoseLog) error {
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeDoseLogs) ListDoseLogs(ctx context.Context, filter storage.DoseLogFilter) ([]internal.DoseLog, error) {
	var out []internal.DoseLog
	for _, l := range f.logs {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestCreateDoseLog_InheritsSubject(t *testing.T) {
	repo := newFakeMedicines()
	logs := &fakeDoseLogs{}
	med, _ := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{Name: "A", MemberID: "m1"})

	when := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	log, err := CreateDoseLog(context.Background(), logs, repo, testUser, &DoseLogRequest{
		MedicineID: med.ID,
		Status:     internal.StatusMissed,
		Time:       when,
	})
	assert.NoError(t, err)
	assert.Equal(t, "m1", log.MemberID)
	assert.Equal(t, internal.StatusMissed, log.Status)
	assert.True(t, log.Time.Equal(when))
	assert.Len(t, logs.logs, 1)
}

func TestCreateDoseLog_Defaults(t *testing.T) {
	repo := newFakeMedicines()
	logs := &fakeDoseLogs{}
	med, _ := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{Name: "A"})

	log, err := CreateDoseLog(context.Background(), logs, repo, testUser, &DoseLogRequest{MedicineID: med.ID})
	assert.NoError(t, err)
	assert.Equal(t, internal.StatusTaken, log.Status)
	assert.False(t, log.Time.IsZero())
}

func TestCreateDoseLog_UnknownMedicine(t *testing.T) {
	repo := newFakeMedicines()
	logs := &fakeDoseLogs{}

	_, err := CreateDoseLog(context.Background(), logs, repo, testUser, &DoseLogRequest{MedicineID: "ghost"})
	assert.ErrorIs(t, err, internal.ErrMissingReference)
	assert.Empty(t, logs.logs)
}

func TestCreateDoseLog_ForeignMedicine(t *testing.T) {
	repo := newFakeMedicines()
	logs := &fakeDoseLogs{}
	other := &internal.User{ID: "u2"}
	med, _ := CreateMedicine(context.Background(), repo, other, &MedicineRequest{Name: "A"})

	_, err := CreateDoseLog(context.Background(), logs, repo, testUser, &DoseLogRequest{MedicineID: med.ID})
	assert.ErrorIs(t, err, internal.ErrMissingReference)
}

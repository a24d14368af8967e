package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/suryard0605/medtrack/internal"
)

// fakeMedicines is an in-memory MedicineRepository for service tests.
type fakeMedicines struct {
	byID map[string]*internal.Medicine
}

func newFakeMedicines() *fakeMedicines {
	return &fakeMedicines{byID: make(map[string]*internal.Medicine)}
}

func (f *fakeMedicines) SaveMedicine(ctx context.Context, med *internal.Medicine) error {
	cp := *med
	f.byID[med.ID] = &cp
	return nil
}

func (f *fakeMedicines) ListMedicines(ctx context.Context, userID string, memberID *string) ([]internal.Medicine, error) {
	var out []internal.Medicine
	for _, m := range f.byID {
		if m.UserID != userID {
			continue
		}
		if memberID != nil && m.MemberID != *memberID {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMedicines) ListAllMedicines(ctx context.Context) ([]internal.Medicine, error) {
	var out []internal.Medicine
	for _, m := range f.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMedicines) GetMedicine(ctx context.Context, id string) (*internal.Medicine, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, errors.New("medicine not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedicines) UpdateMedicine(ctx context.Context, med *internal.Medicine) error {
	if _, ok := f.byID[med.ID]; !ok {
		return errors.New("medicine not found")
	}
	cp := *med
	f.byID[med.ID] = &cp
	return nil
}

func (f *fakeMedicines) DeleteMedicine(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return errors.New("medicine not found")
	}
	delete(f.byID, id)
	return nil
}

var testUser = &internal.User{ID: "u1", Name: "Surya"}

func TestCreateMedicine_DerivesEndDate(t *testing.T) {
	repo := newFakeMedicines()
	med, err := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{
		Name:         "Paracetamol",
		Dosage:       "500mg",
		DurationDays: 7,
		StartDate:    "01/03/2026",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-08", med.EndDate)
	assert.Equal(t, "u1", med.UserID)

	stored, err := repo.GetMedicine(context.Background(), med.ID)
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-08", stored.EndDate)
}

func TestCreateMedicine_ReminderTimesDriveTimesPerDay(t *testing.T) {
	repo := newFakeMedicines()
	med, err := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{
		Name:          "Paracetamol",
		TimesPerDay:   5, // overridden by the explicit schedule
		ReminderTimes: []string{"08:00", " ", "20:00"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"08:00", "20:00"}, med.ReminderTimes)
	assert.Equal(t, 2, med.TimesPerDay)
}

func TestCreateMedicine_BadStartDate(t *testing.T) {
	repo := newFakeMedicines()
	_, err := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{
		Name:      "Paracetamol",
		StartDate: "soon",
	})
	assert.ErrorIs(t, err, internal.ErrInvalidDateFormat)
	assert.Empty(t, repo.byID)
}

func TestValidateMedicineRequest(t *testing.T) {
	assert.NoError(t, ValidateMedicineRequest(&MedicineRequest{Name: "A", ReminderTimes: []string{"08:00", ""}}))
	assert.Error(t, ValidateMedicineRequest(&MedicineRequest{Name: ""}))
	assert.Error(t, ValidateMedicineRequest(&MedicineRequest{Name: "A", ReminderTimes: []string{"8am"}}))
	assert.Error(t, ValidateMedicineRequest(&MedicineRequest{Name: "A", FoodRelation: "sideways"}))
}

func TestRefillMedicine_RoundTrip(t *testing.T) {
	repo := newFakeMedicines()
	med, err := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{
		Name:         "Paracetamol",
		DurationDays: 7,
		StartDate:    "2026-03-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-08", med.EndDate)

	refilled, err := RefillMedicine(context.Background(), repo, med.ID, 5)
	assert.NoError(t, err)
	assert.Equal(t, 12, refilled.DurationDays)
	// end date is recomputed from the original start, not bumped from the old end
	assert.Equal(t, "2026-03-13", refilled.EndDate)
	assert.Equal(t, "2026-03-01", refilled.StartDate)
}

func TestRefillMedicine_RejectsNonPositive(t *testing.T) {
	repo := newFakeMedicines()
	med, _ := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{Name: "A", DurationDays: 7, StartDate: "2026-03-01"})

	_, err := RefillMedicine(context.Background(), repo, med.ID, 0)
	assert.Error(t, err)
	_, err = RefillMedicine(context.Background(), repo, med.ID, -3)
	assert.Error(t, err)
}

func TestCureMedicine(t *testing.T) {
	repo := newFakeMedicines()
	med, _ := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{Name: "A"})

	assert.NoError(t, CureMedicine(context.Background(), repo, med.ID))
	_, err := repo.GetMedicine(context.Background(), med.ID)
	assert.Error(t, err)
}

func TestUpdateMedicine_ClearsEndDateWithoutStart(t *testing.T) {
	repo := newFakeMedicines()
	med, _ := CreateMedicine(context.Background(), repo, testUser, &MedicineRequest{Name: "A", DurationDays: 7, StartDate: "2026-03-01"})

	updated, err := UpdateMedicine(context.Background(), repo, med.ID, &MedicineRequest{Name: "A renamed"})
	assert.NoError(t, err)
	assert.Equal(t, "A renamed", updated.Name)
	assert.Empty(t, updated.EndDate)
}

func TestDueMedicines(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 15, 0, time.Local)
	meds := []internal.Medicine{
		{ID: "a", Name: "A", ReminderTimes: []string{"08:00"}},
		{ID: "b", Name: "B", ReminderTimes: []string{"09:00"}},
		{ID: "c", Name: "C", ReminderTimes: []string{"garbage", "08:00"}},
	}

	due := DueMedicines(meds, now)
	assert.Len(t, due, 2)
	assert.Equal(t, "a", due[0].ID)
	assert.Equal(t, "c", due[1].ID)
}

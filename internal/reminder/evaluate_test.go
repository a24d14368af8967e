package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/suryard0605/medtrack/internal"
)

// fakeChecker answers HasLog from two in-memory sets and can be forced to
// fail.
type fakeChecker struct {
	anyLog   map[string]bool // medicineID -> any log exists today
	takenLog map[string]bool // medicineID -> a taken log exists today
	err      error
}

func (f *fakeChecker) HasLog(ctx context.Context, userID, medicineID string, day time.Time, takenOnly bool) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if takenOnly {
		return f.takenLog[medicineID], nil
	}
	return f.anyLog[medicineID], nil
}

func medAt(id, name string, slots ...string) internal.Medicine {
	return internal.Medicine{ID: id, UserID: "u1", Name: name, ReminderTimes: slots}
}

var eightAM = time.Date(2026, 3, 10, 8, 0, 30, 0, time.Local)

func TestEvaluate_DueNowFiresOnce(t *testing.T) {
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "08:00", "20:00")},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}
	checker := &fakeChecker{}

	fresh := Evaluate(context.Background(), eightAM, snap, checker, nil)
	assert.Len(t, fresh, 1)
	assert.Equal(t, KindReminder, fresh[0].Kind)
	assert.Equal(t, "08:00", fresh[0].Slot)
	assert.Equal(t, ReminderID("med1", "08:00", eightAM), fresh[0].ID)
	assert.False(t, fresh[0].Missed)

	// re-evaluating with the notification active materializes nothing new
	snap.Active = fresh
	again := Evaluate(context.Background(), eightAM.Add(20*time.Second), snap, checker, nil)
	assert.Empty(t, again)
}

func TestEvaluate_ExistingLogSuppressesSlot(t *testing.T) {
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "08:00")},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}
	checker := &fakeChecker{anyLog: map[string]bool{"med1": true}}

	fresh := Evaluate(context.Background(), eightAM, snap, checker, nil)
	assert.Empty(t, fresh)
}

func TestEvaluate_DismissalIsPermanent(t *testing.T) {
	id := ReminderID("med1", "08:00", eightAM)
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "08:00")},
		Dismissed: map[string]bool{id: true},
		Completed: map[string]bool{},
	}

	fresh := Evaluate(context.Background(), eightAM, snap, &fakeChecker{}, nil)
	assert.Empty(t, fresh)
}

func TestEvaluate_CompletedForTodaySuppresses(t *testing.T) {
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "08:00")},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{completedKey("med1", eightAM): true},
	}

	fresh := Evaluate(context.Background(), eightAM, snap, &fakeChecker{}, nil)
	assert.Empty(t, fresh)
}

func TestEvaluate_CheckerFailureSuppressesSlot(t *testing.T) {
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "08:00")},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}
	checker := &fakeChecker{err: errors.New("store down")}

	fresh := Evaluate(context.Background(), eightAM, snap, checker, nil)
	assert.Empty(t, fresh)
}

func TestEvaluate_MalformedSlotSkipped(t *testing.T) {
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "8am", "08:00")},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}

	fresh := Evaluate(context.Background(), eightAM, snap, &fakeChecker{}, nil)
	assert.Len(t, fresh, 1)
	assert.Equal(t, "08:00", fresh[0].Slot)
}

func TestEvaluate_MissedScan(t *testing.T) {
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	snap := Snapshot{
		UserID: "u1",
		Medicines: []internal.Medicine{
			medAt("med1", "Paracetamol", "08:00"),
			medAt("med2", "Vitamin D", "09:00"),
		},
		Dismissed:  map[string]bool{},
		Completed:  map[string]bool{},
		ScanMissed: true,
	}
	// med2 was taken this morning, med1 was not
	checker := &fakeChecker{takenLog: map[string]bool{"med2": true}}

	fresh := Evaluate(context.Background(), noon, snap, checker, nil)
	assert.Len(t, fresh, 1)
	assert.Equal(t, MissedID("med1", "08:00", noon), fresh[0].ID)
	assert.True(t, fresh[0].Missed)
}

func TestEvaluate_MissedScanSkipsActiveMedicine(t *testing.T) {
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	active := Notification{
		ID:         ReminderID("med1", "08:00", noon),
		Kind:       KindReminder,
		MedicineID: "med1",
		Slot:       "08:00",
	}
	snap := Snapshot{
		UserID:     "u1",
		Medicines:  []internal.Medicine{medAt("med1", "Paracetamol", "08:00", "10:00")},
		Active:     []Notification{active},
		Dismissed:  map[string]bool{},
		Completed:  map[string]bool{},
		ScanMissed: true,
	}

	fresh := Evaluate(context.Background(), noon, snap, &fakeChecker{}, nil)
	assert.Empty(t, fresh)
}

func TestEvaluate_WithoutScanNoMissed(t *testing.T) {
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{medAt("med1", "Paracetamol", "08:00")},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}

	fresh := Evaluate(context.Background(), noon, snap, &fakeChecker{}, nil)
	assert.Empty(t, fresh)
}

func TestEvaluate_RefillFiresDayBeforeEnd(t *testing.T) {
	// course 01..08 March: end date is the 8th, so refill fires on the 7th
	med := internal.Medicine{
		ID: "med1", UserID: "u1", Name: "Paracetamol",
		StartDate: "2026-03-01", DurationDays: 7,
	}
	snap := Snapshot{
		UserID:    "u1",
		Medicines: []internal.Medicine{med},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}
	day7 := time.Date(2026, 3, 7, 10, 0, 0, 0, time.Local)

	fresh := Evaluate(context.Background(), day7, snap, &fakeChecker{}, nil)
	assert.Len(t, fresh, 1)
	assert.Equal(t, KindRefill, fresh[0].Kind)
	assert.Equal(t, RefillID("med1", day7), fresh[0].ID)
	assert.Contains(t, fresh[0].ID, "2026-03-07")

	// same day, already active: no duplicate
	snap.Active = fresh
	again := Evaluate(context.Background(), day7.Add(2*time.Hour), snap, &fakeChecker{}, nil)
	assert.Empty(t, again)

	// any other day: nothing
	day6 := day7.AddDate(0, 0, -1)
	assert.Empty(t, Evaluate(context.Background(), day6, snap, &fakeChecker{}, nil))
}

func TestEvaluate_RefillNeedsSchedule(t *testing.T) {
	snap := Snapshot{
		UserID: "u1",
		Medicines: []internal.Medicine{
			{ID: "med1", UserID: "u1", Name: "NoDates"},
			{ID: "med2", UserID: "u1", Name: "BadDate", StartDate: "soon", DurationDays: 7},
		},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.Local)

	assert.Empty(t, Evaluate(context.Background(), now, snap, &fakeChecker{}, nil))
}

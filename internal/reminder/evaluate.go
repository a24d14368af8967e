package reminder

import (
	"context"
	"time"

	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/schedule"
)

// LogChecker answers whether a dose log already exists for a medicine on a
// calendar day. It is the evaluator's only I/O; when it errors the affected
// slot is suppressed rather than risk firing a duplicate.
type LogChecker interface {
	HasLog(ctx context.Context, userID, medicineID string, day time.Time, takenOnly bool) (bool, error)
}

// Snapshot is everything one evaluation pass reads. Evaluate never mutates
// it; the reducer folds the result back into State.
type Snapshot struct {
	UserID     string
	Medicines  []internal.Medicine
	Active     []Notification
	Dismissed  map[string]bool
	Completed  map[string]bool // medicineID-dayKey acted on today
	ScanMissed bool            // also scan today's already-passed slots
}

// completedKey marks a medicine as acted-upon for one calendar day, so a
// resolved reminder does not re-fire from a later slot check.
func completedKey(medicineID string, day time.Time) string {
	return medicineID + "-" + schedule.DayKey(day)
}

// Evaluate returns the notifications that should be newly materialized at
// now. Already-active and dismissed ids never reappear, which makes a second
// pass over the same snapshot a no-op.
func Evaluate(ctx context.Context, now time.Time, snap Snapshot, logs LogChecker, logger internal.Logger) []Notification {
	activeIDs := make(map[string]bool, len(snap.Active))
	activeMedicines := make(map[string]bool, len(snap.Active))
	activeSlots := make(map[string]bool, len(snap.Active))
	for _, n := range snap.Active {
		activeIDs[n.ID] = true
		activeMedicines[n.MedicineID] = true
		if n.Kind == KindReminder {
			activeSlots[n.MedicineID+"@"+n.Slot] = true
		}
	}
	suppressed := func(id string) bool {
		return activeIDs[id] || snap.Dismissed[id]
	}

	var fresh []Notification
	for _, med := range snap.Medicines {
		for _, slot := range med.ReminderTimes {
			if _, _, err := schedule.ParseClockTime(slot); err != nil {
				continue // malformed slots are skipped, never fatal
			}
			switch {
			case schedule.IsClockTimeNow(slot, now):
				id := ReminderID(med.ID, slot, now)
				if suppressed(id) || activeSlots[med.ID+"@"+slot] || snap.Completed[completedKey(med.ID, now)] {
					continue
				}
				exists, err := logs.HasLog(ctx, snap.UserID, med.ID, now, false)
				if err != nil {
					if logger != nil {
						logger.Warnf("reminder: log check failed for medicine %s, suppressing slot %s: %v", med.ID, slot, err)
					}
					continue
				}
				if exists {
					continue
				}
				fresh = append(fresh, Notification{
					ID:         id,
					Kind:       KindReminder,
					MedicineID: med.ID,
					Name:       med.Name,
					Slot:       slot,
					Message:    reminderMessage(med, slot, false),
				})
				activeIDs[id] = true
				activeMedicines[med.ID] = true
				activeSlots[med.ID+"@"+slot] = true

			case snap.ScanMissed && schedule.SlotBefore(slot, now):
				// A medicine with any surfaced notification today is not
				// nagged again from the missed scan.
				if activeMedicines[med.ID] || snap.Completed[completedKey(med.ID, now)] {
					continue
				}
				id := MissedID(med.ID, slot, now)
				if suppressed(id) {
					continue
				}
				taken, err := logs.HasLog(ctx, snap.UserID, med.ID, now, true)
				if err != nil {
					if logger != nil {
						logger.Warnf("reminder: log check failed for medicine %s, suppressing missed slot %s: %v", med.ID, slot, err)
					}
					continue
				}
				if taken {
					continue
				}
				fresh = append(fresh, Notification{
					ID:         id,
					Kind:       KindReminder,
					MedicineID: med.ID,
					Name:       med.Name,
					Slot:       slot,
					Message:    reminderMessage(med, slot, true),
					Missed:     true,
				})
				activeIDs[id] = true
				activeMedicines[med.ID] = true
			}
		}

		if n := evaluateRefill(med, now, suppressed, snap.Active); n != nil {
			fresh = append(fresh, *n)
			activeIDs[n.ID] = true
			activeMedicines[med.ID] = true
		}
	}
	return fresh
}

// evaluateRefill fires when tomorrow is the course's end date, at most once
// per medicine per calendar day.
func evaluateRefill(med internal.Medicine, now time.Time, suppressed func(string) bool, active []Notification) *Notification {
	if med.StartDate == "" || med.DurationDays <= 0 {
		return nil
	}
	start, err := schedule.ParseFlexibleDate(med.StartDate)
	if err != nil {
		return nil
	}
	end := start.AddDate(0, 0, med.DurationDays)
	refillDay := end.AddDate(0, 0, -1)
	if !schedule.SameDay(now, refillDay) {
		return nil
	}
	id := RefillID(med.ID, now)
	if suppressed(id) {
		return nil
	}
	for _, n := range active {
		if n.Kind == KindRefill && n.MedicineID == med.ID {
			return nil
		}
	}
	return &Notification{
		ID:         id,
		Kind:       KindRefill,
		MedicineID: med.ID,
		Name:       med.Name,
		Message:    refillMessage(med),
	}
}

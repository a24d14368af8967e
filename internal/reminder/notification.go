// Package reminder derives due, missed and refill notifications from the
// medicine schedule. Evaluation is a pure fold over a snapshot; the reducer
// in state.go owns every mutation of notification state; the poller drives
// the server-side once-per-minute pass.
package reminder

import (
	"fmt"
	"time"

	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/schedule"
)

type Kind string

const (
	KindReminder Kind = "reminder"
	KindRefill   Kind = "refill"
)

// DefaultRefillDays is the extension applied when a refill action does not
// name one.
const DefaultRefillDays = 7

// Notification is ephemeral derived state, never persisted server-side. IDs
// are deterministic in (medicine, slot, calendar day) so re-evaluating the
// same snapshot can never materialize a duplicate.
type Notification struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"type"`
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Slot       string `json:"time,omitempty"` // HH:MM, reminders only
	Message    string `json:"msg"`
	Missed     bool   `json:"is_missed,omitempty"`
}

func ReminderID(medicineID, slot string, day time.Time) string {
	return fmt.Sprintf("reminder-%s-%s-%s", medicineID, slot, schedule.DayKey(day))
}

func MissedID(medicineID, slot string, day time.Time) string {
	return fmt.Sprintf("missed-%s-%s-%s", medicineID, slot, schedule.DayKey(day))
}

func RefillID(medicineID string, day time.Time) string {
	return fmt.Sprintf("refill-%s-%s", medicineID, schedule.DayKey(day))
}

func reminderMessage(med internal.Medicine, slot string, missed bool) string {
	msg := "Time to take " + med.Name
	if missed {
		msg = "Missed: Take " + med.Name
	}
	if med.Dosage != "" {
		msg += " (" + med.Dosage + ")"
	}
	msg += " at " + slot
	if med.FoodRelation != "" {
		msg += " - " + med.FoodRelation + " food"
	}
	return msg
}

func refillMessage(med internal.Medicine) string {
	msg := "Refill Alert: " + med.Name
	if med.Dosage != "" {
		msg += " (" + med.Dosage + ")"
	}
	return msg + " course ends tomorrow. Consider refilling to continue your treatment."
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/notify"
	"github.com/suryard0605/medtrack/internal/schedule"
	"github.com/suryard0605/medtrack/internal/storage"
)

type MedicineRequest struct {
	MemberID      string   `json:"member_id,omitempty"`
	Name          string   `json:"name" validate:"required"`
	Dosage        string   `json:"dosage,omitempty"`
	FoodRelation  string   `json:"food_relation,omitempty" validate:"omitempty,oneof=before after any"`
	TimesPerDay   int      `json:"times_per_day" validate:"gte=0,lte=24"`
	DurationDays  int      `json:"duration_days" validate:"gte=0"`
	StartDate     string   `json:"start_date,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	ReminderTimes []string `json:"reminder_times,omitempty"`
}

func ValidateMedicineRequest(req *MedicineRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	for _, slot := range req.ReminderTimes {
		if strings.TrimSpace(slot) == "" {
			continue
		}
		if _, _, err := schedule.ParseClockTime(slot); err != nil {
			return fmt.Errorf("invalid reminder time %q: %w", slot, err)
		}
	}
	return nil
}

// normalizeReminders drops blank entries; what remains is the authoritative
// schedule and drives TimesPerDay.
func normalizeReminders(times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func CreateMedicine(ctx context.Context, medicines storage.MedicineRepository, user *internal.User, req *MedicineRequest) (*internal.Medicine, error) {
	now := time.Now()
	med := &internal.Medicine{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		MemberID:      req.MemberID,
		Name:          req.Name,
		Dosage:        req.Dosage,
		FoodRelation:  req.FoodRelation,
		TimesPerDay:   req.TimesPerDay,
		DurationDays:  req.DurationDays,
		StartDate:     req.StartDate,
		Notes:         req.Notes,
		ReminderTimes: normalizeReminders(req.ReminderTimes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if len(med.ReminderTimes) > 0 {
		med.TimesPerDay = len(med.ReminderTimes)
	}
	if med.StartDate != "" {
		start, err := schedule.ParseFlexibleDate(med.StartDate)
		if err != nil {
			return nil, err
		}
		med.EndDate = schedule.ComputeEndDate(start, med.DurationDays)
	}
	if err := medicines.SaveMedicine(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

func UpdateMedicine(ctx context.Context, medicines storage.MedicineRepository, id string, req *MedicineRequest) (*internal.Medicine, error) {
	med, err := medicines.GetMedicine(ctx, id)
	if err != nil {
		return nil, err
	}
	med.Name = req.Name
	med.Dosage = req.Dosage
	med.FoodRelation = req.FoodRelation
	med.TimesPerDay = req.TimesPerDay
	med.DurationDays = req.DurationDays
	med.StartDate = req.StartDate
	med.Notes = req.Notes
	med.ReminderTimes = normalizeReminders(req.ReminderTimes)
	if len(med.ReminderTimes) > 0 {
		med.TimesPerDay = len(med.ReminderTimes)
	}
	med.UpdatedAt = time.Now()
	if med.StartDate != "" {
		start, err := schedule.ParseFlexibleDate(med.StartDate)
		if err != nil {
			return nil, err
		}
		med.EndDate = schedule.ComputeEndDate(start, med.DurationDays)
	} else {
		med.EndDate = ""
	}
	if err := medicines.UpdateMedicine(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

// RefillMedicine extends the course by extraDays and recomputes the end date
// from the original start, so refilling k days always yields
// endDate(start, duration+k).
func RefillMedicine(ctx context.Context, medicines storage.MedicineRepository, id string, extraDays int) (*internal.Medicine, error) {
	if extraDays <= 0 {
		return nil, fmt.Errorf("refill days must be positive")
	}
	med, err := medicines.GetMedicine(ctx, id)
	if err != nil {
		return nil, err
	}
	med.DurationDays += extraDays
	if med.StartDate != "" {
		start, err := schedule.ParseFlexibleDate(med.StartDate)
		if err != nil {
			return nil, err
		}
		med.EndDate = schedule.ComputeEndDate(start, med.DurationDays)
	}
	med.UpdatedAt = time.Now()
	if err := medicines.UpdateMedicine(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

// CureMedicine ends the course early by deleting the medicine. Dose logs for
// it remain as history.
func CureMedicine(ctx context.Context, medicines storage.MedicineRepository, id string) error {
	return medicines.DeleteMedicine(ctx, id)
}

// DueMedicines returns the medicines with a reminder slot in the current
// minute, the on-demand twin of the poller's pass.
func DueMedicines(medicines []internal.Medicine, now time.Time) []internal.Medicine {
	due := []internal.Medicine{}
	for _, med := range medicines {
		for _, slot := range med.ReminderTimes {
			if schedule.IsClockTimeNow(slot, now) {
				due = append(due, med)
				break
			}
		}
	}
	return due
}

// AnnounceMedicine tells the account holder (and the member, if any) that a
// medicine was added. Best effort: failures are logged by the notifier and
// never fail the create.
func AnnounceMedicine(ctx context.Context, users storage.UserRepository, members storage.MemberRepository, notifier notify.Notifier, med *internal.Medicine, logger internal.Logger) {
	var emails, phones []string
	memberName := "your family member"

	if user, err := users.GetUser(ctx, med.UserID); err == nil {
		if user.Email != "" {
			emails = append(emails, user.Email)
		}
		if user.Phone != "" {
			phones = append(phones, user.Phone)
		}
	}
	if med.MemberID != "" {
		if member, err := members.GetMember(ctx, med.MemberID); err == nil {
			memberName = member.Name
			if member.Email != "" {
				emails = append(emails, member.Email)
			}
			if member.Phone != "" {
				phones = append(phones, member.Phone)
			}
		}
	}

	if len(emails) > 0 {
		startDate := med.StartDate
		if startDate == "" {
			startDate = "Not set"
		}
		body := fmt.Sprintf("Hello,\n\nA new medicine has been added for %s.\n\n"+
			"Medicine: %s\nDosage: %s\nTimes per day: %d\nDuration: %d days\nStart Date: %s\n\n"+
			"Please make sure to follow the schedule.",
			memberName, med.Name, med.Dosage, med.TimesPerDay, med.DurationDays, startDate)
		if err := notifier.SendEmail(ctx, emails, "New Medicine Added: "+med.Name, body); err != nil {
			logger.Warnf("failed to announce medicine %s by email: %v", med.ID, err)
		}
	}
	for _, phone := range phones {
		target := memberName
		if med.MemberID == "" {
			target = "you"
		}
		if err := notifier.SendSMS(ctx, phone, fmt.Sprintf("New Medicine Added: %s for %s", med.Name, target)); err != nil {
			logger.Warnf("failed to announce medicine %s by SMS: %v", med.ID, err)
		}
	}
}

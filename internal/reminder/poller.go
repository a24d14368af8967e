package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/notify"
	"github.com/suryard0605/medtrack/internal/schedule"
	"github.com/suryard0605/medtrack/internal/storage"
)

// Poller is the server-side once-per-minute reminder pass: any medicine with
// a slot in the current minute gets an email/SMS to the account holder and
// the member. Each tick is fire-and-forget; errors are logged and the next
// tick starts clean.
type Poller struct {
	cron      *cron.Cron
	medicines storage.MedicineRepository
	members   storage.MemberRepository
	users     storage.UserRepository
	notifier  notify.Notifier
	logger    internal.Logger
	now       func() time.Time
	tickLimit time.Duration
}

func NewPoller(medicines storage.MedicineRepository, members storage.MemberRepository, users storage.UserRepository, notifier notify.Notifier, logger internal.Logger) *Poller {
	return &Poller{
		cron:      cron.New(),
		medicines: medicines,
		members:   members,
		users:     users,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		tickLimit: 30 * time.Second,
	}
}

func (p *Poller) Start() error {
	if _, err := p.cron.AddFunc("* * * * *", p.tick); err != nil {
		return err
	}
	p.cron.Start()
	p.logger.Info("reminder poller started")
	return nil
}

func (p *Poller) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.logger.Info("reminder poller stopped")
}

func (p *Poller) tick() {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("reminder: tick panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.tickLimit)
	defer cancel()

	now := p.now()
	medicines, err := p.medicines.ListAllMedicines(ctx)
	if err != nil {
		p.logger.Errorf("reminder: failed to list medicines: %v", err)
		return
	}

	for _, med := range medicines {
		for _, slot := range med.ReminderTimes {
			if !IsDue(med, slot, now) {
				continue
			}
			p.deliver(ctx, med, slot)
		}
	}
}

// IsDue reports whether a medicine's slot falls in the current minute and
// today is inside the course's active window. Medicines without a parseable
// start date are reminded regardless of window, matching how schedules were
// entered before end dates were derived.
func IsDue(med internal.Medicine, slot string, now time.Time) bool {
	if !schedule.IsClockTimeNow(slot, now) {
		return false
	}
	if med.StartDate == "" || med.DurationDays <= 0 {
		return true
	}
	start, err := schedule.ParseFlexibleDate(med.StartDate)
	if err != nil {
		return true
	}
	end := start.AddDate(0, 0, med.DurationDays)
	return !now.Before(start) && now.Before(end.AddDate(0, 0, 1))
}

func (p *Poller) deliver(ctx context.Context, med internal.Medicine, slot string) {
	var emails, phones []string
	var memberName string

	user, err := p.users.GetUser(ctx, med.UserID)
	if err != nil {
		p.logger.Warnf("reminder: user %s not found for medicine %s: %v", med.UserID, med.ID, err)
	} else {
		if user.Email != "" {
			emails = append(emails, user.Email)
		}
		if user.Phone != "" {
			phones = append(phones, user.Phone)
		}
	}
	if med.MemberID != "" {
		member, err := p.members.GetMember(ctx, med.MemberID)
		if err != nil {
			p.logger.Warnf("reminder: member %s not found for medicine %s: %v", med.MemberID, med.ID, err)
		} else {
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
		name := memberName
		if name == "" {
			name = "User"
		}
		body := "Hello " + name + ",\n\n" +
			"This is your reminder to take your medicine:\n\n" +
			"Name: " + med.Name + "\n" +
			"Dosage: " + med.Dosage + "\n" +
			"Time: " + slot + "\n" +
			"Instructions: " + med.FoodRelation + "\n\n" +
			"Stay Healthy!"
		if err := p.notifier.SendEmail(ctx, emails, "Medicine Reminder: "+med.Name, body); err != nil {
			p.logger.Errorf("reminder: email delivery failed for medicine %s: %v", med.ID, err)
		}
	}
	for _, phone := range phones {
		msg := "Reminder: Take " + med.Name
		if med.Dosage != "" {
			msg += " (" + med.Dosage + ")"
		}
		msg += " now."
		if err := p.notifier.SendSMS(ctx, phone, msg); err != nil {
			p.logger.Errorf("reminder: SMS delivery failed for medicine %s: %v", med.ID, err)
		}
	}
}

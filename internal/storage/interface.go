package storage

import (
	"context"
	"time"

	"github.com/suryard0605/medtrack/internal"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *internal.User) error
	GetUser(ctx context.Context, id string) (*internal.User, error)
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
	UpdateUser(ctx context.Context, user *internal.User) error
}

type MemberRepository interface {
	SaveMember(ctx context.Context, member *internal.Member) error
	ListMembers(ctx context.Context, userID string) ([]internal.Member, error)
	GetMember(ctx context.Context, id string) (*internal.Member, error)
	UpdateMember(ctx context.Context, member *internal.Member) error
	DeleteMember(ctx context.Context, id string) error
}

type MedicineRepository interface {
	SaveMedicine(ctx context.Context, med *internal.Medicine) error
	// ListMedicines returns an account's medicines. A nil memberID means no
	// subject filter; a pointer to "" selects only the main subject's.
	ListMedicines(ctx context.Context, userID string, memberID *string) ([]internal.Medicine, error)
	ListAllMedicines(ctx context.Context) ([]internal.Medicine, error)
	GetMedicine(ctx context.Context, id string) (*internal.Medicine, error)
	UpdateMedicine(ctx context.Context, med *internal.Medicine) error
	DeleteMedicine(ctx context.Context, id string) error
}

// DoseLogFilter narrows a log listing. Zero times mean unbounded; both
// bounds are inclusive. MemberID follows the ListMedicines convention.
type DoseLogFilter struct {
	UserID     string
	MemberID   *string
	MedicineID string
	From       time.Time
	To         time.Time
}

type DoseLogRepository interface {
	SaveDoseLog(ctx context.Context, log *internal.DoseLog) error
	ListDoseLogs(ctx context.Context, filter DoseLogFilter) ([]internal.DoseLog, error)
}

func (f DoseLogFilter) Matches(l internal.DoseLog) bool {
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.MemberID != nil && l.MemberID != *f.MemberID {
		return false
	}
	if f.MedicineID != "" && l.MedicineID != f.MedicineID {
		return false
	}
	if !f.From.IsZero() && l.Time.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && l.Time.After(f.To) {
		return false
	}
	return true
}

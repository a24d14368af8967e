package api

import (
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/notify"
	"github.com/suryard0605/medtrack/internal/reminder"
	"github.com/suryard0605/medtrack/internal/storage"
)

// App is what handlers need from the composed application.
type App interface {
	Logger() internal.Logger
	Users() storage.UserRepository
	Members() storage.MemberRepository
	Medicines() storage.MedicineRepository
	DoseLogs() storage.DoseLogRepository
	Notifier() notify.Notifier
	Reminders() *reminder.Manager
}

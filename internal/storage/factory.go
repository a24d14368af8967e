package storage

import (
	"io"

	"github.com/suryard0605/medtrack/internal"
)

// Repositories bundles the four stores plus the backend's Close, so main can
// flush on shutdown without knowing which backend it got.
type Repositories struct {
	Users     UserRepository
	Members   MemberRepository
	Medicines MedicineRepository
	DoseLogs  DoseLogRepository
	io.Closer
}

func NewFileRepositories(usersFile, membersFile, medicinesFile, logsFile string, logger internal.Logger) (*Repositories, error) {
	s, err := NewFileStorage(usersFile, membersFile, medicinesFile, logsFile, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Users: s, Members: s, Medicines: s, DoseLogs: s, Closer: s}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	s, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Users: s, Members: s, Medicines: s, DoseLogs: s, Closer: s}, nil
}

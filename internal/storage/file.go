package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/suryard0605/medtrack/internal"
)

// FileStorage keeps every collection in memory and mirrors it to JSON files
// with a debounced background writer, so a burst of writes costs one disk
// flush per collection.
type FileStorage struct {
	users     map[string]*internal.User     // id -> user
	tokens    map[string]string             // token -> user id
	members   map[string]*internal.Member   // id -> member
	medicines map[string]*internal.Medicine // id -> medicine
	doseLogs  []*internal.DoseLog           // append-only

	mu sync.RWMutex

	usersFile     string
	membersFile   string
	medicinesFile string
	logsFile      string

	dirty        map[string]bool
	saveChan     chan struct{}
	shutdownChan chan struct{}
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(usersFile, membersFile, medicinesFile, logsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:         make(map[string]*internal.User),
		tokens:        make(map[string]string),
		members:       make(map[string]*internal.Member),
		medicines:     make(map[string]*internal.Medicine),
		usersFile:     usersFile,
		membersFile:   membersFile,
		medicinesFile: medicinesFile,
		logsFile:      logsFile,
		dirty:         make(map[string]bool),
		saveChan:      make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadMembers(); err != nil {
		logger.Errorf("storage: failed to load members: %v", err)
		return nil, err
	}
	if err := s.loadMedicines(); err != nil {
		logger.Errorf("storage: failed to load medicines: %v", err)
		return nil, err
	}
	if err := s.loadDoseLogs(); err != nil {
		logger.Errorf("storage: failed to load dose logs: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func loadJSONFile(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *FileStorage) loadUsers() error {
	var users []*internal.User
	if err := loadJSONFile(s.usersFile, &users); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		if u.Token != "" {
			s.tokens[u.Token] = u.ID
		}
	}
	return nil
}

func (s *FileStorage) loadMembers() error {
	var members []*internal.Member
	if err := loadJSONFile(s.membersFile, &members); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		s.members[m.ID] = m
	}
	return nil
}

func (s *FileStorage) loadMedicines() error {
	var meds []*internal.Medicine
	if err := loadJSONFile(s.medicinesFile, &meds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range meds {
		s.medicines[m.ID] = m
	}
	return nil
}

func (s *FileStorage) loadDoseLogs() error {
	var logs []*internal.DoseLog
	if err := loadJSONFile(s.logsFile, &logs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doseLogs = logs
	sort.Slice(s.doseLogs, func(i, j int) bool {
		return s.doseLogs[i].Time.Before(s.doseLogs[j].Time)
	})
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) markDirty(collection string) {
	s.dirty[collection] = true
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			s.saveDirty()
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) saveDirty() {
	s.mu.Lock()
	pending := s.dirty
	s.dirty = make(map[string]bool)
	s.mu.Unlock()

	for collection := range pending {
		if err := s.saveCollection(collection); err != nil {
			s.logger.Errorf("storage: error saving %s: %v", collection, err)
		}
	}
}

func (s *FileStorage) saveCollection(collection string) error {
	s.mu.RLock()
	var (
		path string
		data interface{}
	)
	switch collection {
	case "users":
		users := make([]*internal.User, 0, len(s.users))
		for _, u := range s.users {
			users = append(users, u)
		}
		path, data = s.usersFile, users
	case "members":
		members := make([]*internal.Member, 0, len(s.members))
		for _, m := range s.members {
			members = append(members, m)
		}
		path, data = s.membersFile, members
	case "medicines":
		meds := make([]*internal.Medicine, 0, len(s.medicines))
		for _, m := range s.medicines {
			meds = append(meds, m)
		}
		path, data = s.medicinesFile, meds
	case "dose_logs":
		logs := make([]*internal.DoseLog, len(s.doseLogs))
		copy(logs, s.doseLogs)
		path, data = s.logsFile, logs
	}
	s.mu.RUnlock()

	if path == "" {
		return nil
	}
	return atomicWriteFileJSON(path, data)
}

// Close flushes every collection synchronously and stops the save worker.
func (s *FileStorage) Close() error {
	close(s.shutdownChan)
	for _, collection := range []string{"users", "members", "medicines", "dose_logs"} {
		if err := s.saveCollection(collection); err != nil {
			return err
		}
	}
	return nil
}

// --- UserRepository ---

func (s *FileStorage) SaveUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	if user.Token != "" {
		s.tokens[user.Token] = user.ID
	}
	s.markDirty("users")
	return nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("storage: user not found")
	}
	copied := *u
	return &copied, nil
}

func (s *FileStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, errors.New("storage: user not found")
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *FileStorage) UpdateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return errors.New("storage: user not found")
	}
	s.users[user.ID] = user
	if user.Token != "" {
		s.tokens[user.Token] = user.ID
	}
	s.markDirty("users")
	return nil
}

// --- MemberRepository ---

func (s *FileStorage) SaveMember(ctx context.Context, member *internal.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
	s.markDirty("members")
	return nil
}

func (s *FileStorage) ListMembers(ctx context.Context, userID string) ([]internal.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := []internal.Member{}
	for _, m := range s.members {
		if m.UserID == userID {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

func (s *FileStorage) GetMember(ctx context.Context, id string) (*internal.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return nil, errors.New("storage: member not found")
	}
	copied := *m
	return &copied, nil
}

func (s *FileStorage) UpdateMember(ctx context.Context, member *internal.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[member.ID]; !ok {
		return errors.New("storage: member not found")
	}
	s.members[member.ID] = member
	s.markDirty("members")
	return nil
}

// DeleteMember removes only the member row. Medicines and dose logs that
// reference the member stay put; aggregation treats them as orphaned and
// filters them out instead of cascading here.
func (s *FileStorage) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return errors.New("storage: member not found")
	}
	delete(s.members, id)
	s.markDirty("members")
	return nil
}

// --- MedicineRepository ---

func (s *FileStorage) SaveMedicine(ctx context.Context, med *internal.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medicines[med.ID] = med
	s.markDirty("medicines")
	return nil
}

func (s *FileStorage) ListMedicines(ctx context.Context, userID string, memberID *string) ([]internal.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meds := []internal.Medicine{}
	for _, m := range s.medicines {
		if m.UserID != userID {
			continue
		}
		if memberID != nil && m.MemberID != *memberID {
			continue
		}
		meds = append(meds, *m)
	}
	sort.Slice(meds, func(i, j int) bool {
		return meds[i].CreatedAt.Before(meds[j].CreatedAt)
	})
	return meds, nil
}

func (s *FileStorage) ListAllMedicines(ctx context.Context) ([]internal.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meds := make([]internal.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		meds = append(meds, *m)
	}
	sort.Slice(meds, func(i, j int) bool {
		return meds[i].CreatedAt.Before(meds[j].CreatedAt)
	})
	return meds, nil
}

func (s *FileStorage) GetMedicine(ctx context.Context, id string) (*internal.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medicines[id]
	if !ok {
		return nil, errors.New("storage: medicine not found")
	}
	copied := *m
	return &copied, nil
}

func (s *FileStorage) UpdateMedicine(ctx context.Context, med *internal.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medicines[med.ID]; !ok {
		return errors.New("storage: medicine not found")
	}
	s.medicines[med.ID] = med
	s.markDirty("medicines")
	return nil
}

func (s *FileStorage) DeleteMedicine(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medicines[id]; !ok {
		return errors.New("storage: medicine not found")
	}
	delete(s.medicines, id)
	s.markDirty("medicines")
	return nil
}

// --- DoseLogRepository ---

func (s *FileStorage) SaveDoseLog(ctx context.Context, log *internal.DoseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doseLogs = append(s.doseLogs, log)
	s.markDirty("dose_logs")
	return nil
}

func (s *FileStorage) ListDoseLogs(ctx context.Context, filter DoseLogFilter) ([]internal.DoseLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.DoseLog{}
	for _, l := range s.doseLogs {
		if filter.Matches(*l) {
			logs = append(logs, *l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Time.After(logs[j].Time)
	})
	return logs, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*FileStorage)(nil)
var _ MemberRepository = (*FileStorage)(nil)
var _ MedicineRepository = (*FileStorage)(nil)
var _ DoseLogRepository = (*FileStorage)(nil)

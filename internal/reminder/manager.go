package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/suryard0605/medtrack/internal"
)

// Manager holds one State per account and routes every change through the
// reducer. States live in memory; the dismissed set is additionally mirrored
// to the DismissalStore so dismissals survive restarts.
type Manager struct {
	mu     sync.Mutex
	states map[string]State

	store  DismissalStore
	logs   LogChecker
	logger internal.Logger
}

func NewManager(store DismissalStore, logs LogChecker, logger internal.Logger) *Manager {
	return &Manager{
		states: make(map[string]State),
		store:  store,
		logs:   logs,
		logger: logger,
	}
}

// loadState returns the account's state with the persisted dismissed set
// folded in. A store failure degrades to the in-memory set; worst case a
// dismissed notification resurfaces, which the log check already bounds.
func (m *Manager) loadState(ctx context.Context, userID string) State {
	s, ok := m.states[userID]
	if !ok {
		s = NewState()
	}
	ids, err := m.store.Members(ctx, userID)
	if err != nil {
		m.logger.Warnf("reminder: failed to load dismissed set for %s: %v", userID, err)
		return s
	}
	for _, id := range ids {
		if !s.Dismissed[id] {
			s = withDismissed(s, id)
		}
	}
	return s
}

func withDismissed(s State, id string) State {
	next := clone(s)
	next.Dismissed[id] = true
	remaining := next.Active[:0]
	for _, n := range next.Active {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	next.Active = remaining
	return next
}

func (m *Manager) persistDismissed(ctx context.Context, userID string, before, after State) {
	var added []string
	for id := range after.Dismissed {
		if !before.Dismissed[id] {
			added = append(added, id)
		}
	}
	if len(added) == 0 {
		return
	}
	if err := m.store.Add(ctx, userID, added); err != nil {
		m.logger.Warnf("reminder: failed to persist dismissed set for %s: %v", userID, err)
	}
}

// ActiveNotifications runs one evaluation pass for an account and returns
// everything currently visible. scanMissed additionally sweeps today's
// already-passed slots, which callers do once per session.
func (m *Manager) ActiveNotifications(ctx context.Context, userID string, medicines []internal.Medicine, now time.Time, scanMissed bool) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.loadState(ctx, userID)
	fresh := Evaluate(ctx, now, Snapshot{
		UserID:     userID,
		Medicines:  medicines,
		Active:     state.Active,
		Dismissed:  state.Dismissed,
		Completed:  state.Completed,
		ScanMissed: scanMissed,
	}, m.logs, m.logger)
	state = Apply(state, EvaluateEvent{Fresh: fresh})
	m.states[userID] = state

	out := make([]Notification, len(state.Active))
	copy(out, state.Active)
	return out
}

// Act resolves the notification and everything else active for its medicine.
// It returns the acted-upon notification; ok is false when the id is not
// active (already resolved or never materialized).
func (m *Manager) Act(ctx context.Context, userID, notificationID string, now time.Time) (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.loadState(ctx, userID)
	acted, ok := state.Find(notificationID)
	if !ok {
		return Notification{}, false
	}
	next := Apply(state, ActEvent{NotificationID: notificationID, Now: now})
	m.persistDismissed(ctx, userID, state, next)
	m.states[userID] = next
	return acted, true
}

// DismissAll clears the account's panel permanently.
func (m *Manager) DismissAll(ctx context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.loadState(ctx, userID)
	next := Apply(state, DismissAllEvent{})
	m.persistDismissed(ctx, userID, state, next)
	m.states[userID] = next
}

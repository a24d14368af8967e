package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// DismissalStore persists dismissed notification ids per account so a
// dismissed notification stays dismissed across sessions. The set is not
// authoritative state; losing it only risks a resolved notification
// resurfacing, which the log-existence check already bounds.
type DismissalStore interface {
	Add(ctx context.Context, userID string, ids []string) error
	Members(ctx context.Context, userID string) ([]string, error)
}

// MemoryDismissalStore is the in-process implementation used in development
// and tests.
type MemoryDismissalStore struct {
	mu   sync.RWMutex
	sets map[string]map[string]bool
}

func NewMemoryDismissalStore() *MemoryDismissalStore {
	return &MemoryDismissalStore{sets: make(map[string]map[string]bool)}
}

func (m *MemoryDismissalStore) Add(ctx context.Context, userID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[userID]
	if set == nil {
		set = make(map[string]bool)
		m.sets[userID] = set
	}
	for _, id := range ids {
		set[id] = true
	}
	return nil
}

func (m *MemoryDismissalStore) Members(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.sets[userID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

// RedisDismissalStore keeps dismissed ids in a redis set per account.
// Notification ids embed the calendar day, so entries only need to outlive
// the day they were created on; the key expires after 48 hours.
type RedisDismissalStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDismissalStore(addr string) *RedisDismissalStore {
	return &RedisDismissalStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    48 * time.Hour,
	}
}

func dismissalKey(userID string) string {
	return "medtrack:dismissed:" + userID
}

func (r *RedisDismissalStore) Add(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	key := dismissalKey(userID)
	if err := r.client.SAdd(ctx, key, members...).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, r.ttl).Err()
}

func (r *RedisDismissalStore) Members(ctx context.Context, userID string) ([]string, error) {
	return r.client.SMembers(ctx, dismissalKey(userID)).Result()
}

var (
	_ DismissalStore = (*MemoryDismissalStore)(nil)
	_ DismissalStore = (*RedisDismissalStore)(nil)
)

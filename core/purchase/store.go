package purchase

import (
	"context"
	"sort"
	"sync"
)

// Storer keeps purchase histories. QueryByUser returns newest first.
type Storer interface {
	QueryByUser(ctx context.Context, userID string) ([]Purchase, error)
	Create(ctx context.Context, p Purchase) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]Purchase
}

func NewMemoryStore(seed []Purchase) *MemoryStore {
	s := &MemoryStore{byUser: make(map[string][]Purchase)}
	for _, p := range seed {
		s.byUser[p.UserID] = append(s.byUser[p.UserID], p)
	}
	return s
}

func (s *MemoryStore) QueryByUser(ctx context.Context, userID string) ([]Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Purchase, len(s.byUser[userID]))
	copy(out, s.byUser[userID])

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PurchaseDate.After(out[j].PurchaseDate)
	})
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, p Purchase) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[p.UserID] = append(s.byUser[p.UserID], p)
	return nil
}

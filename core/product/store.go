package product

import (
	"context"
	"sync"
	"time"
)

// Storer keeps the catalog. Queries return products newest first.
type Storer interface {
	QueryAll(ctx context.Context) ([]Product, error)
	QueryByID(ctx context.Context, id string) (Product, error)
	QueryBySeller(ctx context.Context, sellerID string) ([]Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the in-process catalog backed by a slice. It can add an
// artificial latency to every call to behave like a remote database.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	latency  time.Duration
}

func NewMemoryStore(seed []Product, latency time.Duration) *MemoryStore {
	ps := make([]Product, 0, len(seed))
	for _, p := range seed {
		ps = append(ps, p.Clone())
	}
	return &MemoryStore{products: ps, latency: latency}
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.latency)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *MemoryStore) QueryAll(ctx context.Context) ([]Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *MemoryStore) QueryByID(ctx context.Context, id string) (Product, error) {
	if err := s.wait(ctx); err != nil {
		return Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return s.products[i].Clone(), nil
	}
	return Product{}, ErrNotFound
}

func (s *MemoryStore) QueryBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Product{}
	for _, p := range s.products {
		if p.SellerID == sellerID {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// Create puts p in front of the catalog.
func (s *MemoryStore) Create(ctx context.Context, p Product) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]Product{p.Clone()}, s.products...)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, p Product) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(p.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.products[i] = p.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

func (s *MemoryStore) index(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

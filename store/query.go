package store

import (
	"context"

	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
)

// Search recomputes the catalog view for f on every call.
func (s *Store) Search(ctx context.Context, f product.Filter) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, err := s.catalog.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return product.Search(ps, f), nil
}

func (s *Store) Product(ctx context.Context, id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.QueryByID(ctx, id)
}

func (s *Store) Listings(ctx context.Context, sellerID string) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.QueryBySeller(ctx, sellerID)
}

func (s *Store) Filter(ctx context.Context, userID string) (product.Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filters[userID], nil
}

func (s *Store) Cart(ctx context.Context, userID string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart(userID), nil
}

func (s *Store) Purchases(ctx context.Context, userID string) ([]purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.purchases.QueryByUser(ctx, userID)
}

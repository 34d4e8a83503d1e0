package store

import (
	"context"

	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
)

// The methods below dispatch a single intent and return the part of the
// event the caller needs.

func (s *Store) AddToCart(ctx context.Context, userID string, p product.Product) (cart.Cart, error) {
	ev, err := s.Dispatch(ctx, AddToCart{UserID: userID, Product: p})
	return ev.Cart, err
}

func (s *Store) RemoveFromCart(ctx context.Context, userID, productID string) (cart.Cart, error) {
	ev, err := s.Dispatch(ctx, RemoveFromCart{UserID: userID, ProductID: productID})
	return ev.Cart, err
}

func (s *Store) ClearCart(ctx context.Context, userID string) (cart.Cart, error) {
	ev, err := s.Dispatch(ctx, ClearCart{UserID: userID})
	return ev.Cart, err
}

func (s *Store) Checkout(ctx context.Context, userID string) (purchase.Purchase, error) {
	ev, err := s.Dispatch(ctx, Checkout{UserID: userID})
	return ev.Purchase, err
}

func (s *Store) CreateListing(ctx context.Context, seller product.Seller, pn product.ProductNew) (product.Product, error) {
	ev, err := s.Dispatch(ctx, CreateListing{Seller: seller, New: pn})
	return ev.Product, err
}

func (s *Store) UpdateListing(ctx context.Context, id string, up product.ProductUp) (product.Product, error) {
	ev, err := s.Dispatch(ctx, UpdateListing{ID: id, Up: up})
	return ev.Product, err
}

func (s *Store) DeleteListing(ctx context.Context, id string) error {
	_, err := s.Dispatch(ctx, DeleteListing{ID: id})
	return err
}

func (s *Store) ChangeFilter(ctx context.Context, userID string, f product.Filter) (product.Filter, error) {
	ev, err := s.Dispatch(ctx, ChangeFilter{UserID: userID, Filter: f})
	return ev.Filter, err
}

func (s *Store) ClearFilter(ctx context.Context, userID string) error {
	_, err := s.Dispatch(ctx, ClearFilter{UserID: userID})
	return err
}

func (s *Store) SignedIn(ctx context.Context, userID string) error {
	_, err := s.Dispatch(ctx, SignedIn{UserID: userID})
	return err
}

func (s *Store) SignedOut(ctx context.Context, userID string) error {
	_, err := s.Dispatch(ctx, SignedOut{UserID: userID})
	return err
}

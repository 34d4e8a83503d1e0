// Package store owns the mutable state of the marketplace: carts and saved
// filters per user, plus access to the catalog and purchase history.
// Every change goes through Dispatch and is published as an Event.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/irsalhamdi/secondhand-market/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/irsalhamdi/secondhand-market/store"

// Event is the outcome of an applied intent.
type Event struct {
	Kind     Kind
	UserID   string
	Cart     cart.Cart
	Purchase purchase.Purchase
	Product  product.Product
	Filter   product.Filter
	At       time.Time
}

type Subscriber func(Event)

// Notifier runs subscriber calls, normally in the background.
type Notifier interface {
	Go(fn func())
}

type Store struct {
	mu        sync.RWMutex
	catalog   product.Storer
	purchases purchase.Storer
	carts     map[string]cart.Cart
	filters   map[string]product.Filter

	subMu    sync.RWMutex
	subs     []Subscriber
	notifier Notifier

	now    func() time.Time
	newID  func() string
	tracer trace.Tracer
}

type Option func(*Store)

// WithNotifier delivers events through n. Without it subscribers are
// called before Dispatch returns.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(catalog product.Storer, purchases purchase.Storer, opts ...Option) *Store {
	s := &Store{
		catalog:   catalog,
		purchases: purchases,
		carts:     make(map[string]cart.Cart),
		filters:   make(map[string]product.Filter),
		now:       time.Now,
		newID:     validate.GenerateID,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) publish(ev Event) {
	s.subMu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn := fn
		if s.notifier == nil {
			fn(ev)
			continue
		}
		s.notifier.Go(func() { fn(ev) })
	}
}

// Dispatch applies in and publishes the resulting event. Intents naming a
// listing that does not exist change nothing and report
// product.ErrNotFound; checking out an empty cart reports
// purchase.ErrEmptyCart.
func (s *Store) Dispatch(ctx context.Context, in Intent) (Event, error) {
	ctx, span := s.tracer.Start(ctx, "store."+string(in.Kind()))
	defer span.End()

	s.mu.Lock()
	now := s.now().UTC()
	ev, err := s.apply(ctx, in, now)
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Event{}, err
	}

	ev.Kind = in.Kind()
	ev.At = now
	span.SetAttributes(attribute.String("market.user_id", ev.UserID))

	s.publish(ev)
	return ev, nil
}

func (s *Store) cart(userID string) cart.Cart {
	c, ok := s.carts[userID]
	if !ok {
		return cart.Cart{UserID: userID}
	}
	return c
}

// apply runs with s.mu held.
func (s *Store) apply(ctx context.Context, in Intent, now time.Time) (Event, error) {
	switch in := in.(type) {
	case AddToCart:
		c := s.cart(in.UserID).Add(in.Product, s.newID(), now)
		s.carts[in.UserID] = c
		return Event{UserID: in.UserID, Cart: c, Product: in.Product}, nil

	case RemoveFromCart:
		c, _ := s.cart(in.UserID).Remove(in.ProductID, now)
		s.carts[in.UserID] = c
		return Event{UserID: in.UserID, Cart: c}, nil

	case ClearCart:
		c := s.cart(in.UserID).Clear(now)
		s.carts[in.UserID] = c
		return Event{UserID: in.UserID, Cart: c}, nil

	case Checkout:
		c := s.cart(in.UserID)
		if c.IsEmpty() {
			return Event{}, purchase.ErrEmptyCart
		}

		p := purchase.New(s.newID(), c, now)
		if err := s.purchases.Create(ctx, p); err != nil {
			return Event{}, fmt.Errorf("storing purchase: %w", err)
		}

		c = c.Clear(now)
		s.carts[in.UserID] = c
		return Event{UserID: in.UserID, Cart: c, Purchase: p}, nil

	case CreateListing:
		p := product.New(in.New, in.Seller, s.newID(), now)
		if err := s.catalog.Create(ctx, p); err != nil {
			return Event{}, fmt.Errorf("storing listing: %w", err)
		}
		return Event{UserID: in.Seller.ID, Product: p}, nil

	case UpdateListing:
		p, err := s.catalog.QueryByID(ctx, in.ID)
		if err != nil {
			return Event{}, err
		}

		p = p.Merge(in.Up, now)
		if err := s.catalog.Update(ctx, p); err != nil {
			return Event{}, err
		}
		return Event{UserID: p.SellerID, Product: p}, nil

	case DeleteListing:
		p, err := s.catalog.QueryByID(ctx, in.ID)
		if err != nil {
			return Event{}, err
		}

		if err := s.catalog.Delete(ctx, in.ID); err != nil {
			return Event{}, err
		}
		return Event{UserID: p.SellerID, Product: p}, nil

	case ChangeFilter:
		s.filters[in.UserID] = in.Filter
		return Event{UserID: in.UserID, Filter: in.Filter}, nil

	case ClearFilter:
		delete(s.filters, in.UserID)
		return Event{UserID: in.UserID}, nil

	case SignedIn:
		return Event{UserID: in.UserID, Cart: s.cart(in.UserID)}, nil

	case SignedOut:
		delete(s.carts, in.UserID)
		delete(s.filters, in.UserID)
		return Event{UserID: in.UserID, Cart: cart.Cart{UserID: in.UserID}}, nil
	}

	return Event{}, fmt.Errorf("unknown intent %T", in)
}

package store

import (
	"github.com/irsalhamdi/secondhand-market/core/product"
)

type Kind string

const (
	KindCartItemAdded   Kind = "cart.item_added"
	KindCartItemRemoved Kind = "cart.item_removed"
	KindCartCleared     Kind = "cart.cleared"
	KindCheckedOut      Kind = "purchase.completed"
	KindListingCreated  Kind = "listing.created"
	KindListingUpdated  Kind = "listing.updated"
	KindListingDeleted  Kind = "listing.deleted"
	KindFilterChanged   Kind = "filter.changed"
	KindFilterCleared   Kind = "filter.cleared"
	KindSignedIn        Kind = "session.signed_in"
	KindSignedOut       Kind = "session.signed_out"
)

// Intent is a request to change the store. Intents are applied one at a
// time, in the order Dispatch receives them.
type Intent interface {
	Kind() Kind
}

type AddToCart struct {
	UserID  string
	Product product.Product
}

type RemoveFromCart struct {
	UserID    string
	ProductID string
}

type ClearCart struct {
	UserID string
}

type Checkout struct {
	UserID string
}

type CreateListing struct {
	Seller product.Seller
	New    product.ProductNew
}

type UpdateListing struct {
	ID string
	Up product.ProductUp
}

type DeleteListing struct {
	ID string
}

type ChangeFilter struct {
	UserID string
	Filter product.Filter
}

type ClearFilter struct {
	UserID string
}

type SignedIn struct {
	UserID string
}

// SignedOut drops the user's cart and saved filter.
type SignedOut struct {
	UserID string
}

func (AddToCart) Kind() Kind      { return KindCartItemAdded }
func (RemoveFromCart) Kind() Kind { return KindCartItemRemoved }
func (ClearCart) Kind() Kind      { return KindCartCleared }
func (Checkout) Kind() Kind       { return KindCheckedOut }
func (CreateListing) Kind() Kind  { return KindListingCreated }
func (UpdateListing) Kind() Kind  { return KindListingUpdated }
func (DeleteListing) Kind() Kind  { return KindListingDeleted }
func (ChangeFilter) Kind() Kind   { return KindFilterChanged }
func (ClearFilter) Kind() Kind    { return KindFilterCleared }
func (SignedIn) Kind() Kind       { return KindSignedIn }
func (SignedOut) Kind() Kind      { return KindSignedOut }

package purchase

import (
	"errors"
	"time"

	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("no items to checkout")

type Status string

const (
	Completed Status = "completed"
	Pending   Status = "pending"
	Cancelled Status = "cancelled"
)

// Purchase is the immutable record of a checkout.
type Purchase struct {
	ID           string          `json:"id"`
	UserID       string          `json:"-"`
	Items        []cart.Item     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Status       Status          `json:"status"`
}

// New records the checkout of c. The total is computed from the cart at
// this instant.
func New(id string, c cart.Cart, now time.Time) Purchase {
	items := make([]cart.Item, len(c.Items))
	copy(items, c.Items)

	return Purchase{
		ID:           id,
		UserID:       c.UserID,
		Items:        items,
		TotalAmount:  c.Total(),
		PurchaseDate: now,
		Status:       Completed,
	}
}

// Stats summarizes a purchase history. Items counts cart lines, not units.
type Stats struct {
	Count      int             `json:"count"`
	Items      int             `json:"items"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

func Summarize(ps []Purchase) Stats {
	st := Stats{Count: len(ps), TotalSpent: decimal.Zero}
	for _, p := range ps {
		st.Items += len(p.Items)
		st.TotalSpent = st.TotalSpent.Add(p.TotalAmount)
	}
	return st
}

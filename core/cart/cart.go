package cart

import (
	"time"

	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Product is a snapshot taken when the item was
// first added; later catalog edits do not change it.
type Item struct {
	ID       string          `json:"id"`
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity.
func (it Item) Subtotal() decimal.Decimal {
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart holds at most one Item per product id. Methods never modify the
// receiver's backing array, so a Cart value can be shared safely.
type Cart struct {
	UserID    string    `json:"-"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ItemNew struct {
	ProductID string `json:"productId" validate:"required"`
}

func (c Cart) index(productID string) int {
	for i, it := range c.Items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Find returns the item holding productID.
func (c Cart) Find(productID string) (Item, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Add increments the quantity of p's item, or appends a new item with
// quantity 1 identified by itemID.
func (c Cart) Add(p product.Product, itemID string, now time.Time) Cart {
	items := make([]Item, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)

	if i := c.index(p.ID); i >= 0 {
		items[i].Quantity++
	} else {
		items = append(items, Item{ID: itemID, Product: p.Clone(), Quantity: 1})
	}

	c.Items = items
	c.UpdatedAt = now
	return c
}

// Remove drops the item holding productID. It reports false, and returns
// c unchanged, when there is no such item.
func (c Cart) Remove(productID string, now time.Time) (Cart, bool) {
	i := c.index(productID)
	if i < 0 {
		return c, false
	}

	items := make([]Item, 0, len(c.Items)-1)
	items = append(items, c.Items[:i]...)
	items = append(items, c.Items[i+1:]...)

	c.Items = items
	c.UpdatedAt = now
	return c, true
}

func (c Cart) Clear(now time.Time) Cart {
	c.Items = []Item{}
	c.UpdatedAt = now
	return c
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total is the sum of every item's price × quantity.
func (c Cart) Total() decimal.Decimal {
	tot := decimal.Zero
	for _, it := range c.Items {
		tot = tot.Add(it.Subtotal())
	}
	return tot
}

// Count is the number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// View is the cart as rendered to clients.
type View struct {
	Items     []Item          `json:"items"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (c Cart) View() View {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return View{
		Items:     items,
		Count:     c.Count(),
		Total:     c.Total(),
		UpdatedAt: c.UpdatedAt,
	}
}

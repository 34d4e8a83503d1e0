package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/shopspring/decimal"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func cartOf(userID string, prices ...int64) cart.Cart {
	c := cart.Cart{UserID: userID}
	for i, p := range prices {
		id := string(rune('a' + i))
		c = c.Add(product.Product{ID: id, Price: decimal.NewFromInt(p), Images: []string{}}, "item-"+id, now)
	}
	return c
}

func TestNew(t *testing.T) {
	c := cartOf("1", 750, 85)

	p := New("p1", c, now)
	if !p.TotalAmount.Equal(decimal.NewFromInt(835)) {
		t.Fatalf("expected total 835, got %s", p.TotalAmount)
	}
	if p.Status != Completed {
		t.Fatalf("expected status completed, got %s", p.Status)
	}
	if p.UserID != "1" || len(p.Items) != 2 {
		t.Fatalf("unexpected purchase %+v", p)
	}

	c.Items[0].Quantity = 99
	if p.Items[0].Quantity != 1 {
		t.Fatal("purchase shares its items with the cart")
	}
}

func TestSummarize(t *testing.T) {
	ps := []Purchase{
		New("p1", cartOf("1", 750), now),
		New("p2", cartOf("1", 85, 120), now),
	}

	exp := Stats{Count: 2, Items: 3, TotalSpent: decimal.NewFromInt(955)}
	if diff := cmp.Diff(exp, Summarize(ps)); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}

	empty := Summarize(nil)
	if empty.Count != 0 || !empty.TotalSpent.Equal(decimal.Zero) {
		t.Fatalf("unexpected empty stats %+v", empty)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	old := New("old", cartOf("1", 750), now.Add(-48*time.Hour))
	s := NewMemoryStore([]Purchase{old, New("other", cartOf("2", 10), now)})

	if err := s.Create(ctx, New("new", cartOf("1", 85), now)); err != nil {
		t.Fatal(err)
	}

	ps, err := s.QueryByUser(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"new", "old"}, ids); diff != "" {
		t.Fatalf("unexpected history order (-want +got):\n%s", diff)
	}

	none, err := s.QueryByUser(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", none)
	}
}

package seed

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/shopspring/decimal"
)

func TestLoad(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(d.Products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(d.Products))
	}
	for _, p := range d.Products {
		if !p.IsAvailable || p.Price.IsNegative() || len(p.Images) != 1 {
			t.Fatalf("unexpected seed product %+v", p)
		}
	}

	var totals []string
	for _, p := range d.Purchases {
		if p.Status != purchase.Completed {
			t.Fatalf("purchase[%s] has status %s", p.ID, p.Status)
		}
		totals = append(totals, p.TotalAmount.String())
	}
	if diff := cmp.Diff([]string{"750", "85"}, totals); diff != "" {
		t.Fatalf("unexpected purchase totals (-want +got):\n%s", diff)
	}

	stats := purchase.Summarize(d.Purchases)
	if !stats.TotalSpent.Equal(decimal.NewFromInt(835)) {
		t.Fatalf("expected 835 spent, got %s", stats.TotalSpent)
	}

	if len(d.Accounts) != 1 || d.Accounts[0].Profile.Username != "john_eco" {
		t.Fatalf("unexpected accounts %+v", d.Accounts)
	}
}

func TestLoadReturnsFreshValues(t *testing.T) {
	a, _ := Load()
	a.Products[0].Title = "changed"

	b, _ := Load()
	if b.Products[0].Title == "changed" {
		t.Fatal("Load shares state between calls")
	}
}

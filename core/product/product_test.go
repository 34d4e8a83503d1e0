package product

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/secondhand-market/validate"
	"github.com/shopspring/decimal"
)

func TestNewDefaults(t *testing.T) {
	price := decimal.NewFromInt(40)
	p := New(ProductNew{Title: "Kettle", Description: "works", Category: "Other", Price: &price},
		Seller{ID: "7", Name: "Ann"}, "p1", day0)

	want := Product{
		ID:          "p1",
		Title:       "Kettle",
		Description: "works",
		Price:       price,
		Category:    "Other",
		Images:      []string{PlaceholderImage},
		SellerID:    "7",
		SellerName:  "Ann",
		Condition:   ConditionGood,
		IsAvailable: true,
		CreatedAt:   day0,
		UpdatedAt:   day0,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("unexpected product (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	p := item("1", "Jacket", "Clothing", 450, 0, true)
	p.Images = []string{"https://example.com/a.jpg"}

	title := "Leather jacket"
	sold := false
	later := day0.Add(time.Hour)
	up := p.Merge(ProductUp{Title: &title, IsAvailable: &sold}, later)

	if up.Title != title || up.IsAvailable {
		t.Fatalf("fields not applied: %+v", up)
	}
	if !up.Price.Equal(p.Price) || up.Category != p.Category {
		t.Fatal("unset fields changed")
	}
	if !up.UpdatedAt.Equal(later) || !up.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("unexpected timestamps %v %v", up.CreatedAt, up.UpdatedAt)
	}
}

func TestPriceIsJSONNumber(t *testing.T) {
	b, err := json.Marshal(Product{Price: decimal.RequireFromString("19.99")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"price":19.99`) {
		t.Fatalf("price not rendered as a number: %s", b)
	}
}

func TestCheckPrice(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"0", true},
		{"19.99", true},
		{"19.990", true},
		{"9999999999.99", true},
		{"19.999", false},
		{"0.001", false},
		{"10000000000", false},
		{"1e15", false},
	}

	for _, tc := range tests {
		err := CheckPrice(decimal.RequireFromString(tc.price))
		if tc.ok != (err == nil) {
			t.Fatalf("price %s: unexpected result %v", tc.price, err)
		}
	}
}

func TestProductUpKeepsRequiredFields(t *testing.T) {
	blank := ""
	for _, up := range []ProductUp{{Title: &blank}, {Description: &blank}, {Category: &blank}} {
		if err := validate.Check(up); err == nil {
			t.Fatalf("blank field accepted: %+v", up)
		}
	}

	title := "Lamp"
	if err := validate.Check(ProductUp{Title: &title}); err != nil {
		t.Fatalf("valid update refused: %v", err)
	}
}

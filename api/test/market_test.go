package test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/secondhand-market/core/auth"
	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/irsalhamdi/secondhand-market/core/user"
	"github.com/shopspring/decimal"
)

func productIDs(ps []product.Product) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCatalog(t *testing.T) {
	env := NewTestEnv(t)
	c := env.NewClient(t)

	tests := []struct {
		path string
		want []string
	}{
		{"/products", []string{"6", "5", "4", "3", "2", "1"}},
		{"/products?sort=oldest", []string{"1", "2", "3", "4", "5", "6"}},
		{"/products?sort=price-low", []string{"4", "3", "6", "1", "2", "5"}},
		{"/products?sort=price-high", []string{"5", "2", "1", "6", "3", "4"}},
		{"/products?category=Furniture", []string{"6", "1"}},
		{"/products?q=LEATHER", []string{"1"}},
		{"/products?q=laptop&category=Electronics", []string{"5"}},
		{"/products?q=nothing-matches", []string{}},
	}

	for _, tc := range tests {
		var page product.Page
		if code := c.Do(http.MethodGet, tc.path, nil, &page); code != http.StatusOK {
			t.Fatalf("GET %s: status %d", tc.path, code)
		}
		if diff := cmp.Diff(tc.want, productIDs(page.Products)); diff != "" {
			t.Fatalf("GET %s (-want +got):\n%s", tc.path, diff)
		}
		if page.Count != len(tc.want) {
			t.Fatalf("GET %s: count %d", tc.path, page.Count)
		}
	}

	if code := c.Do(http.MethodGet, "/products?sort=cheapest", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown sort: expected 400, got %d", code)
	}

	var p product.Product
	if code := c.Do(http.MethodGet, "/products/2", nil, &p); code != http.StatusOK {
		t.Fatalf("product detail: status %d", code)
	}
	if p.Title != "iPhone 13 Pro - Mint Condition" || !p.Price.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("unexpected product %+v", p)
	}
	if code := c.Do(http.MethodGet, "/products/42", nil, nil); code != http.StatusNotFound {
		t.Fatalf("missing product: expected 404, got %d", code)
	}

	var opts product.Options
	c.Do(http.MethodGet, "/categories", nil, &opts)
	if len(opts.Categories) != 9 {
		t.Fatalf("expected 9 categories, got %v", opts.Categories)
	}
}

func TestSavedFilter(t *testing.T) {
	env := NewTestEnv(t)
	c := env.NewClient(t)

	if code := c.Do(http.MethodPut, "/filters", product.Filter{Category: "Electronics"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous filter save: expected 401, got %d", code)
	}

	c.Login(userEmail, userPass)

	if code := c.Do(http.MethodPut, "/filters", product.Filter{Category: "Electronics", Sort: product.SortPriceLow}, nil); code != http.StatusOK {
		t.Fatalf("saving filter: status %d", code)
	}

	var page product.Page
	c.Do(http.MethodGet, "/products", nil, &page)
	if diff := cmp.Diff([]string{"2", "5"}, productIDs(page.Products)); diff != "" {
		t.Fatalf("saved filter not applied (-want +got):\n%s", diff)
	}

	c.Do(http.MethodGet, "/products?q=books", nil, &page)
	if diff := cmp.Diff([]string{"4"}, productIDs(page.Products)); diff != "" {
		t.Fatalf("query parameters must win over the saved filter (-want +got):\n%s", diff)
	}

	if code := c.Do(http.MethodDelete, "/filters", nil, nil); code != http.StatusNoContent {
		t.Fatalf("clearing filter: status %d", code)
	}
	c.Do(http.MethodGet, "/products", nil, &page)
	if len(page.Products) != 6 {
		t.Fatalf("filter not cleared: %v", productIDs(page.Products))
	}
}

func TestCartAndCheckout(t *testing.T) {
	env := NewTestEnv(t)
	c := env.NewClient(t)

	if code := c.Do(http.MethodGet, "/cart", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous cart: expected 401, got %d", code)
	}

	c.Login(userEmail, userPass)

	var hist purchase.History
	c.Do(http.MethodGet, "/purchases", nil, &hist)
	if hist.Stats.Count != 2 || !hist.Stats.TotalSpent.Equal(decimal.NewFromInt(835)) {
		t.Fatalf("unexpected seeded history %+v", hist.Stats)
	}

	if code := c.Do(http.MethodPost, "/purchases", nil, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("empty checkout: expected 422, got %d", code)
	}

	var v cart.View
	for _, id := range []string{"2", "4", "2"} {
		if code := c.Do(http.MethodPut, "/cart/items", cart.ItemNew{ProductID: id}, &v); code != http.StatusOK {
			t.Fatalf("adding product[%s]: status %d", id, code)
		}
	}
	if len(v.Items) != 2 || v.Count != 3 || !v.Total.Equal(decimal.NewFromInt(1585)) {
		t.Fatalf("unexpected cart %+v", v)
	}

	if code := c.Do(http.MethodPut, "/cart/items", cart.ItemNew{ProductID: "42"}, nil); code != http.StatusNotFound {
		t.Fatalf("missing product: expected 404, got %d", code)
	}

	c.Do(http.MethodDelete, "/cart/items/2", nil, &v)
	c.Do(http.MethodPut, "/cart/items", cart.ItemNew{ProductID: "2"}, &v)
	if !v.Total.Equal(decimal.NewFromInt(835)) {
		t.Fatalf("expected 835, got %s", v.Total)
	}

	var pu purchase.Purchase
	if code := c.Do(http.MethodPost, "/purchases", nil, &pu); code != http.StatusCreated {
		t.Fatalf("checkout: status %d", code)
	}
	if !pu.TotalAmount.Equal(decimal.NewFromInt(835)) || pu.Status != purchase.Completed {
		t.Fatalf("unexpected purchase %+v", pu)
	}

	c.Do(http.MethodGet, "/cart", nil, &v)
	if len(v.Items) != 0 {
		t.Fatalf("cart not empty after checkout: %+v", v)
	}

	c.Do(http.MethodGet, "/purchases", nil, &hist)
	if hist.Stats.Count != 3 || hist.Purchases[0].ID != pu.ID {
		t.Fatalf("history did not grow by one: %+v", hist.Stats)
	}
	if !hist.Stats.TotalSpent.Equal(decimal.NewFromInt(1670)) {
		t.Fatalf("unexpected total spent %s", hist.Stats.TotalSpent)
	}
}

func TestLogoutClearsCart(t *testing.T) {
	env := NewTestEnv(t)
	c := env.NewClient(t)
	c.Login(userEmail, userPass)

	c.Do(http.MethodPut, "/cart/items", cart.ItemNew{ProductID: "3"}, nil)

	if code := c.Do(http.MethodPost, "/auth/logout", nil, nil); code != http.StatusNoContent {
		t.Fatalf("logout: status %d", code)
	}
	if code := c.Do(http.MethodGet, "/auth/session", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("session after logout: expected 401, got %d", code)
	}

	c.Login(userEmail, userPass)

	var v cart.View
	c.Do(http.MethodGet, "/cart", nil, &v)
	if len(v.Items) != 0 {
		t.Fatalf("cart survived logout: %+v", v.Items)
	}
}

func TestListings(t *testing.T) {
	env := NewTestEnv(t)

	seller := env.NewClient(t)
	seller.Signup("ann@example.com", "secret1", "Ann Lee")

	var p product.Product
	pn := map[string]any{"title": "Desk lamp", "description": "Brass desk lamp", "price": 19.99, "category": "Home & Garden"}
	if code := seller.Do(http.MethodPost, "/products", pn, &p); code != http.StatusCreated {
		t.Fatalf("creating listing: status %d", code)
	}
	if p.SellerName != "Ann Lee" || p.Condition != product.ConditionGood || !p.IsAvailable {
		t.Fatalf("unexpected listing %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("unexpected price %s", p.Price)
	}

	noPrice := map[string]any{"title": "Rug", "description": "Wool rug", "category": "Home & Garden"}
	if code := seller.Do(http.MethodPost, "/products", noPrice, nil); code != http.StatusBadRequest {
		t.Fatalf("listing without price: expected 400, got %d", code)
	}
	negative := map[string]any{"title": "Rug", "description": "Wool rug", "category": "Home & Garden", "price": -1}
	if code := seller.Do(http.MethodPost, "/products", negative, nil); code != http.StatusBadRequest {
		t.Fatalf("negative price: expected 400, got %d", code)
	}

	for _, price := range []any{19.999, 1e15} {
		bad := map[string]any{"title": "Rug", "description": "Wool rug", "category": "Home & Garden", "price": price}
		if code := seller.Do(http.MethodPost, "/products", bad, nil); code != http.StatusBadRequest {
			t.Fatalf("price %v: expected 400, got %d", price, code)
		}
	}
	if code := seller.Do(http.MethodPut, "/products/"+p.ID, map[string]any{"price": 0.005}, nil); code != http.StatusBadRequest {
		t.Fatalf("updating to a fraction of a cent: expected 400, got %d", code)
	}
	if code := seller.Do(http.MethodPut, "/products/"+p.ID, map[string]any{"title": ""}, nil); code != http.StatusBadRequest {
		t.Fatalf("blanking the title: expected 400, got %d", code)
	}

	if code := seller.Do(http.MethodPut, "/cart/items", cart.ItemNew{ProductID: p.ID}, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("buying own listing: expected 422, got %d", code)
	}

	buyer := env.NewClient(t)
	buyer.Login(userEmail, userPass)

	if code := buyer.Do(http.MethodPut, "/products/"+p.ID, map[string]any{"title": "Mine now"}, nil); code != http.StatusForbidden {
		t.Fatalf("update by another user: expected 403, got %d", code)
	}
	if code := buyer.Do(http.MethodDelete, "/products/"+p.ID, nil, nil); code != http.StatusForbidden {
		t.Fatalf("delete by another user: expected 403, got %d", code)
	}
	if code := seller.Do(http.MethodPut, "/products/42", map[string]any{"title": "x"}, nil); code != http.StatusNotFound {
		t.Fatalf("update of missing listing: expected 404, got %d", code)
	}

	var up product.Product
	if code := seller.Do(http.MethodPut, "/products/"+p.ID, map[string]any{"isAvailable": false}, &up); code != http.StatusOK {
		t.Fatalf("marking as sold: status %d", code)
	}
	if up.IsAvailable || up.Title != p.Title {
		t.Fatalf("unexpected update %+v", up)
	}

	var page product.Page
	buyer.Do(http.MethodGet, "/products?q=lamp", nil, &page)
	if len(page.Products) != 0 {
		t.Fatal("sold listing still in the catalog")
	}
	if code := buyer.Do(http.MethodPut, "/cart/items", cart.ItemNew{ProductID: p.ID}, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("buying a sold listing: expected 422, got %d", code)
	}

	var mine product.Listings
	seller.Do(http.MethodGet, "/listings", nil, &mine)
	if mine.Stats.Total != 1 || mine.Stats.Active != 0 || !mine.Stats.TotalValue.IsZero() {
		t.Fatalf("unexpected listing stats %+v", mine.Stats)
	}

	if code := seller.Do(http.MethodDelete, "/products/"+p.ID, nil, nil); code != http.StatusNoContent {
		t.Fatalf("deleting listing: status %d", code)
	}
	if code := seller.Do(http.MethodGet, "/products/"+p.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("deleted listing: expected 404, got %d", code)
	}
}

func TestCurrentUser(t *testing.T) {
	env := NewTestEnv(t)
	c := env.NewClient(t)

	if code := c.Do(http.MethodGet, "/users/current", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile: expected 401, got %d", code)
	}

	c.Login(userEmail, userPass)

	var u user.User
	c.Do(http.MethodGet, "/users/current", nil, &u)
	if u.Username != "john_eco" || u.Phone != "+1 234 567 8900" {
		t.Fatalf("unexpected user %+v", u)
	}

	if code := c.Do(http.MethodPut, "/users/current", map[string]string{"address": "1 New Road"}, &u); code != http.StatusOK {
		t.Fatalf("updating profile: status %d", code)
	}
	if u.Address != "1 New Road" || u.FullName != "John Smith" {
		t.Fatalf("unexpected user %+v", u)
	}

	var sv auth.SessionView
	c.Do(http.MethodGet, "/auth/session", nil, &sv)
	if sv.User.Address != "1 New Road" {
		t.Fatalf("session not refreshed: %+v", sv.User)
	}

	var cleared user.User
	if code := c.Do(http.MethodPut, "/users/current", map[string]string{"phone": ""}, &cleared); code != http.StatusOK {
		t.Fatalf("clearing phone: status %d", code)
	}
	if cleared.Phone != "" || cleared.Address != "1 New Road" {
		t.Fatalf("phone not cleared: %+v", cleared)
	}
}

func TestAuthErrors(t *testing.T) {
	env := NewTestEnv(t)
	c := env.NewClient(t)

	if code := c.Do(http.MethodPost, "/auth/login", map[string]string{"email": userEmail, "password": "wrong"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", code)
	}

	sn := map[string]string{"email": userEmail, "password": "secret1", "fullName": "Someone"}
	if code := c.Do(http.MethodPost, "/auth/signup", sn, nil); code != http.StatusConflict {
		t.Fatalf("existing user: expected 409, got %d", code)
	}

	if code := c.Do(http.MethodGet, "/auth/oauth-login/google", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unconfigured provider: expected 404, got %d", code)
	}
}

func TestNotFound(t *testing.T) {
	env := NewTestEnv(t)

	r, err := http.Get(env.URL + "/nowhere")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", r.StatusCode)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected a JSON body, got %q", ct)
	}
}

package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/core/claims"
	"github.com/irsalhamdi/secondhand-market/validate"
)

// Store is the part of the application store the catalog and listing
// handlers use. UpdateListing and DeleteListing report ErrNotFound, and
// change nothing, for unknown ids.
type Store interface {
	Search(ctx context.Context, f Filter) ([]Product, error)
	Product(ctx context.Context, id string) (Product, error)
	Listings(ctx context.Context, sellerID string) ([]Product, error)
	CreateListing(ctx context.Context, seller Seller, pn ProductNew) (Product, error)
	UpdateListing(ctx context.Context, id string, up ProductUp) (Product, error)
	DeleteListing(ctx context.Context, id string) error
	Filter(ctx context.Context, userID string) (Filter, error)
	ChangeFilter(ctx context.Context, userID string, f Filter) (Filter, error)
	ClearFilter(ctx context.Context, userID string) error
}

// Page is a catalog result.
type Page struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Filter   Filter    `json:"filter"`
}

// Listings is the "my listings" page.
type Listings struct {
	Products []Product    `json:"products"`
	Stats    ListingStats `json:"stats"`
}

type Options struct {
	Categories []string    `json:"categories"`
	Conditions []Condition `json:"conditions"`
	Sorts      []Sort      `json:"sorts"`
}

// HandleList serves the catalog. Without any of the q, category or sort
// parameters a signed-in user gets their saved filter.
func HandleList(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		qs := r.URL.Query()

		var f Filter
		if qs.Has("q") || qs.Has("category") || qs.Has("sort") {
			f = Filter{
				Query:    qs.Get("q"),
				Category: qs.Get("category"),
				Sort:     Sort(qs.Get("sort")),
			}
		} else if clm, err := claims.Get(ctx); err == nil {
			saved, err := st.Filter(ctx, clm.UserID)
			if err != nil {
				return fmt.Errorf("fetching saved filter of user[%s]: %w", clm.UserID, err)
			}
			f = saved
		}

		if err := validate.Check(f); err != nil {
			return weberr.BadRequest(err)
		}
		if f.Sort == "" {
			f.Sort = SortNewest
		}

		ps, err := st.Search(ctx, f)
		if err != nil {
			return fmt.Errorf("searching catalog: %w", err)
		}

		return web.Respond(ctx, w, Page{Products: ps, Count: len(ps), Filter: f}, http.StatusOK)
	}
}

func HandleShow(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		p, err := st.Product(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(fmt.Errorf("product[%s]: %w", id, err))
			}
			return fmt.Errorf("fetching product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleOptions() web.Handler {
	opts := Options{Categories: Categories, Conditions: Conditions, Sorts: []Sort{SortNewest, SortOldest, SortPriceLow, SortPriceHigh}}
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, opts, http.StatusOK)
	}
}

func HandleCreate(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var pn ProductNew
		if err := web.Decode(w, r, &pn); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(pn); err != nil {
			return weberr.BadRequest(err)
		}

		if pn.Price == nil {
			return weberr.BadRequest(errors.New("price is a required field"))
		}

		if err := CheckPrice(*pn.Price); err != nil {
			return weberr.BadRequest(err)
		}

		p, err := st.CreateListing(ctx, Seller{ID: clm.UserID, Name: clm.Name}, pn)
		if err != nil {
			return fmt.Errorf("creating listing for user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

// owned fetches the product and checks that the caller is its seller.
func owned(ctx context.Context, st Store, id string) (Product, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return Product{}, weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	p, err := st.Product(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, weberr.NotFound(fmt.Errorf("product[%s]: %w", id, err))
		}
		return Product{}, fmt.Errorf("fetching product[%s]: %w", id, err)
	}

	if !claims.IsUser(ctx, p.SellerID) {
		return Product{}, weberr.Forbidden(
			fmt.Errorf("user[%s] is not the seller of product[%s]", clm.UserID, id),
		)
	}

	return p, nil
}

func HandleUpdate(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if _, err := owned(ctx, st, id); err != nil {
			return err
		}

		var up ProductUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		if up.Price != nil {
			if err := CheckPrice(*up.Price); err != nil {
				return weberr.BadRequest(err)
			}
		}

		p, err := st.UpdateListing(ctx, id, up)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(fmt.Errorf("product[%s]: %w", id, err))
			}
			return fmt.Errorf("updating product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleDelete(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if _, err := owned(ctx, st, id); err != nil {
			return err
		}

		if err := st.DeleteListing(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(fmt.Errorf("product[%s]: %w", id, err))
			}
			return fmt.Errorf("deleting product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleListOwned(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ps, err := st.Listings(ctx, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching listings of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, Listings{Products: ps, Stats: Stats(ps)}, http.StatusOK)
	}
}

func HandleSaveFilter(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var f Filter
		if err := web.Decode(w, r, &f); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(f); err != nil {
			return weberr.BadRequest(err)
		}

		saved, err := st.ChangeFilter(ctx, clm.UserID, f)
		if err != nil {
			return fmt.Errorf("saving filter of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, saved, http.StatusOK)
	}
}

func HandleClearFilter(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if err := st.ClearFilter(ctx, clm.UserID); err != nil {
			return fmt.Errorf("clearing filter of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

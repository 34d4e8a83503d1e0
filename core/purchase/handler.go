package purchase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/core/claims"
)

// Store is the part of the application store the purchase handlers use.
type Store interface {
	Checkout(ctx context.Context, userID string) (Purchase, error)
	Purchases(ctx context.Context, userID string) ([]Purchase, error)
}

// History is the purchase history page.
type History struct {
	Purchases []Purchase `json:"purchases"`
	Stats     Stats      `json:"stats"`
}

func HandleCheckout(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		p, err := st.Checkout(ctx, clm.UserID)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				return weberr.Unprocessable(err)
			}
			return fmt.Errorf("checking out cart of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

func HandleList(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ps, err := st.Purchases(ctx, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching purchases of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, History{Purchases: ps, Stats: Summarize(ps)}, http.StatusOK)
	}
}

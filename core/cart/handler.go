package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/core/claims"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/validate"
)

// Store is the part of the application store the cart handlers use.
type Store interface {
	Product(ctx context.Context, id string) (product.Product, error)
	Cart(ctx context.Context, userID string) (Cart, error)
	AddToCart(ctx context.Context, userID string, p product.Product) (Cart, error)
	RemoveFromCart(ctx context.Context, userID string, productID string) (Cart, error)
	ClearCart(ctx context.Context, userID string) (Cart, error)
}

func HandleShow(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		c, err := st.Cart(ctx, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching cart of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, c.View(), http.StatusOK)
	}
}

func HandleCreateItem(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		p, err := st.Product(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(fmt.Errorf("product[%s]: %w", in.ProductID, err))
			}
			return fmt.Errorf("fetching product[%s]: %w", in.ProductID, err)
		}

		if !p.IsAvailable {
			return weberr.Unprocessable(errors.New("this product is no longer available"))
		}

		if p.SellerID == clm.UserID {
			return weberr.Unprocessable(errors.New("you cannot buy your own listing"))
		}

		c, err := st.AddToCart(ctx, clm.UserID, p)
		if err != nil {
			return fmt.Errorf("adding product[%s] to cart of user[%s]: %w", p.ID, clm.UserID, err)
		}

		return web.Respond(ctx, w, c.View(), http.StatusOK)
	}
}

func HandleDeleteItem(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "product_id")

		c, err := st.RemoveFromCart(ctx, clm.UserID, productID)
		if err != nil {
			return fmt.Errorf("removing product[%s] from cart of user[%s]: %w", productID, clm.UserID, err)
		}

		return web.Respond(ctx, w, c.View(), http.StatusOK)
	}
}

func HandleDelete(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if _, err := st.ClearCart(ctx, clm.UserID); err != nil {
			return fmt.Errorf("clearing cart of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/identity"
	"github.com/irsalhamdi/secondhand-market/validate"
)

// Updater changes the profile kept by the identity service.
type Updater interface {
	UpdateUser(ctx context.Context, token string, up identity.ProfileUp) (identity.Identity, error)
}

func HandleShowCurrent(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := FromSession(ctx, sm)
		if !ok {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleUpdateCurrent(sm *scs.SessionManager, up Updater) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := FromSession(ctx, sm)
		if !ok {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var uu UserUp
		if err := web.Decode(w, r, &uu); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(uu); err != nil {
			return weberr.BadRequest(err)
		}

		token := TokenFromSession(ctx, sm)
		if token == "" {
			u = u.Merge(uu)
			SaveSession(ctx, sm, u, "")
			return web.Respond(ctx, w, u, http.StatusOK)
		}

		id, err := up.UpdateUser(ctx, token, uu.Profile())
		if err != nil {
			if errors.Is(err, identity.ErrInvalidSession) {
				return weberr.NotAuthorized(err)
			}
			return fmt.Errorf("updating profile of user[%s]: %w", u.ID, err)
		}

		u = FromIdentity(id)
		SaveSession(ctx, sm, u, token)

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

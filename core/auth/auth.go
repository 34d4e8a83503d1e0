package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/core/claims"
	"github.com/irsalhamdi/secondhand-market/core/user"
)

// LoadAndSave loads the session of every request and commits it once the
// handler returns.
func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			})

			sm.LoadAndSave(h).ServeHTTP(w, r.WithContext(ctx))
			return err
		}
	}
}

func signedIn(ctx context.Context, sm *scs.SessionManager) (context.Context, bool) {
	u, ok := user.FromSession(ctx, sm)
	if !ok {
		return ctx, false
	}
	return claims.Set(ctx, claims.Claims{UserID: u.ID, Name: u.DisplayName()}), true
}

// Authenticate rejects requests without a signed-in user.
func Authenticate(sm *scs.SessionManager) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			ctx, ok := signedIn(ctx, sm)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(ctx, w, r)
		}
	}
}

// Optional sets the claims when a user is signed in and lets anonymous
// requests through.
func Optional(sm *scs.SessionManager) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			ctx, _ = signedIn(ctx, sm)
			return handler(ctx, w, r)
		}
	}
}

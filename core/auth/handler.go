package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/core/user"
	"github.com/irsalhamdi/secondhand-market/identity"
	"github.com/irsalhamdi/secondhand-market/validate"
)

// Gateway is the identity service.
type Gateway interface {
	SignUp(ctx context.Context, email, password string, p identity.Profile) (identity.Session, error)
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
	SignOut(ctx context.Context, token string) error
	User(ctx context.Context, token string) (identity.Identity, error)
}

// Observer is told about users signing in and out.
type Observer interface {
	SignedIn(ctx context.Context, userID string) error
	SignedOut(ctx context.Context, userID string) error
}

type SignupNew struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Username string `json:"username" validate:"omitempty,min=3,max=40"`
	FullName string `json:"fullName" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
	Address  string `json:"address" validate:"omitempty,max=200"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// SessionView is returned by the sign up, login and session endpoints.
type SessionView struct {
	User    user.User `json:"user"`
	Pending bool      `json:"confirmationPending,omitempty"`
}

// gatewayError turns identity service failures into client errors.
func gatewayError(err error) error {
	var ie *identity.Error
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return weberr.NewError(err, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, identity.ErrUserExists):
		return weberr.Conflict(err)
	case errors.Is(err, identity.ErrInvalidSession):
		return weberr.NotAuthorized(err)
	case errors.As(err, &ie) && ie.Status < http.StatusInternalServerError:
		return weberr.NewError(err, ie.Message, ie.Status)
	}
	return err
}

// start makes u the signed-in user of the session.
func start(ctx context.Context, sm *scs.SessionManager, obs Observer, u user.User, token string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}

	user.SaveSession(ctx, sm, u, token)

	if err := obs.SignedIn(ctx, u.ID); err != nil {
		return fmt.Errorf("signing in user[%s]: %w", u.ID, err)
	}
	return nil
}

func HandleSignup(gw Gateway, sm *scs.SessionManager, obs Observer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var sn SignupNew
		if err := web.Decode(w, r, &sn); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(sn); err != nil {
			return weberr.BadRequest(err)
		}

		s, err := gw.SignUp(ctx, sn.Email, sn.Password, identity.Profile{
			Username: sn.Username,
			FullName: sn.FullName,
			Phone:    sn.Phone,
			Address:  sn.Address,
			Avatar:   sn.Avatar,
		})
		if err != nil {
			return gatewayError(err)
		}

		u := user.FromIdentity(s.User)
		if s.Pending() {
			return web.Respond(ctx, w, SessionView{User: u, Pending: true}, http.StatusAccepted)
		}

		if err := start(ctx, sm, obs, u, s.AccessToken); err != nil {
			return err
		}

		return web.Respond(ctx, w, SessionView{User: u}, http.StatusCreated)
	}
}

func HandleLogin(gw Gateway, sm *scs.SessionManager, obs Observer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cred Credentials
		if err := web.Decode(w, r, &cred); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(cred); err != nil {
			return weberr.BadRequest(err)
		}

		s, err := gw.SignIn(ctx, cred.Email, cred.Password)
		if err != nil {
			return gatewayError(err)
		}

		u := user.FromIdentity(s.User)
		if err := start(ctx, sm, obs, u, s.AccessToken); err != nil {
			return err
		}

		return web.Respond(ctx, w, SessionView{User: u}, http.StatusOK)
	}
}

// HandleLogout ends the session. Signing out twice is not an error.
func HandleLogout(gw Gateway, sm *scs.SessionManager, obs Observer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := user.FromSession(ctx, sm)
		if !ok {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		if token := user.TokenFromSession(ctx, sm); token != "" {
			if err := gw.SignOut(ctx, token); err != nil && !errors.Is(err, identity.ErrInvalidSession) {
				return fmt.Errorf("signing out user[%s]: %w", u.ID, err)
			}
		}

		if err := obs.SignedOut(ctx, u.ID); err != nil {
			return fmt.Errorf("clearing state of user[%s]: %w", u.ID, err)
		}

		if err := sm.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleSession returns the signed-in user. Sessions backed by an identity
// service token are checked against the service and refreshed from it.
func HandleSession(gw Gateway, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := user.FromSession(ctx, sm)
		if !ok {
			return weberr.NotAuthorized(errors.New("no active session"))
		}

		token := user.TokenFromSession(ctx, sm)
		if token == "" {
			return web.Respond(ctx, w, SessionView{User: u}, http.StatusOK)
		}

		id, err := gw.User(ctx, token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidSession) {
				if err := sm.Destroy(ctx); err != nil {
					return fmt.Errorf("destroying session: %w", err)
				}
				return weberr.NotAuthorized(err)
			}
			return fmt.Errorf("fetching identity of user[%s]: %w", u.ID, err)
		}

		u = user.FromIdentity(id)
		user.SaveSession(ctx, sm, u, token)

		return web.Respond(ctx, w, SessionView{User: u}, http.StatusOK)
	}
}

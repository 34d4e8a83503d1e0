package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
	"github.com/irsalhamdi/secondhand-market/core/user"
	"github.com/irsalhamdi/secondhand-market/identity"
	"github.com/irsalhamdi/secondhand-market/random"
	"golang.org/x/oauth2"
)

const (
	sessionOauthState = "oauth_state"
	stateLength       = 32
)

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

// Provider is an OpenID Connect identity provider used for social login.
type Provider struct {
	Name     string
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// MakeProviders runs discovery for every configured provider. Providers
// without a client id are skipped.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider)

	for _, cfg := range cfgs {
		if cfg.Client == "" {
			continue
		}

		p, err := oidc.NewProvider(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider[%s]: %w", cfg.Name, err)
		}

		provs[cfg.Name] = Provider{
			Name: cfg.Name,
			config: oauth2.Config{
				ClientID:     cfg.Client,
				ClientSecret: cfg.Secret,
				Endpoint:     p.Endpoint(),
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			verifier: p.Verifier(&oidc.Config{ClientID: cfg.Client}),
		}
	}

	return provs, nil
}

func provider(r *http.Request, provs map[string]Provider) (Provider, error) {
	name := web.Param(r, "provider")
	p, ok := provs[name]
	if !ok {
		return Provider{}, weberr.NotFound(fmt.Errorf("provider[%s] not configured", name))
	}
	return p, nil
}

func HandleOauthLogin(sm *scs.SessionManager, provs map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		p, err := provider(r, provs)
		if err != nil {
			return err
		}

		state, err := random.StringSecure(stateLength)
		if err != nil {
			return fmt.Errorf("generating oauth state: %w", err)
		}
		sm.Put(ctx, sessionOauthState, state)

		http.Redirect(w, r, p.config.AuthCodeURL(state), http.StatusFound)
		return nil
	}
}

type oidcClaims struct {
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Verified bool   `json:"email_verified"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

// HandleOauthCallback finishes a social login and redirects to
// redirectURL. Users are identified by provider and subject.
func HandleOauthCallback(sm *scs.SessionManager, provs map[string]Provider, obs Observer, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		p, err := provider(r, provs)
		if err != nil {
			return err
		}

		state := sm.PopString(ctx, sessionOauthState)
		if state == "" || r.URL.Query().Get("state") != state {
			return weberr.BadRequest(errors.New("invalid oauth state"))
		}

		tok, err := p.config.Exchange(ctx, r.URL.Query().Get("code"))
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("exchanging code with provider[%s]: %w", p.Name, err))
		}

		raw, ok := tok.Extra("id_token").(string)
		if !ok {
			return weberr.NotAuthorized(fmt.Errorf("provider[%s] returned no id token", p.Name))
		}

		idTok, err := p.verifier.Verify(ctx, raw)
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("verifying id token of provider[%s]: %w", p.Name, err))
		}

		var c oidcClaims
		if err := idTok.Claims(&c); err != nil {
			return fmt.Errorf("decoding id token claims: %w", err)
		}
		if !c.Verified {
			return weberr.Forbidden(fmt.Errorf("provider[%s] email %s not verified", p.Name, c.Email))
		}

		u := OauthUser(p.Name, c.Subject, c.Email, c.Name, c.Picture, time.Now().UTC())
		if err := start(ctx, sm, obs, u, ""); err != nil {
			return err
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
		return nil
	}
}

// OauthUser builds the session user for a social login.
func OauthUser(provider, subject, email, name, picture string, now time.Time) user.User {
	u := user.FromIdentity(identity.Identity{Email: email})
	u.ID = provider + "|" + subject
	u.FullName = name
	u.Avatar = picture
	u.CreatedAt = now
	return u
}

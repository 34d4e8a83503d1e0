package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/secondhand-market/api/middleware"
	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/core/auth"
	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/irsalhamdi/secondhand-market/core/user"
	"github.com/irsalhamdi/secondhand-market/store"
	"github.com/sirupsen/logrus"
)

var (
	_ product.Store  = (*store.Store)(nil)
	_ cart.Store     = (*store.Store)(nil)
	_ purchase.Store = (*store.Store)(nil)
	_ auth.Observer  = (*store.Store)(nil)
)

// Identity is the external identity service.
type Identity interface {
	auth.Gateway
	user.Updater
}

// Limiter throttles the sign up and login endpoints per client.
type Limiter interface {
	Allow(id string) bool
}

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	Session          *scs.SessionManager
	Store            *store.Store
	Identity         Identity
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	Limiter          Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	a.NotFoundHandler = web.NotFound()

	var limit web.Middleware
	if cfg.Limiter != nil {
		limit = middleware.RateLimit(cfg.Limiter)
	}

	authen := auth.Authenticate(cfg.Session)
	optional := auth.Optional(cfg.Session)
	st := cfg.Store

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.Identity, cfg.Session, st), limit)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Identity, cfg.Session, st), limit)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Identity, cfg.Session, st))
	a.Handle(http.MethodGet, "/auth/session", auth.HandleSession(cfg.Identity, cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.Session, cfg.Providers, st, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.Session), authen)
	a.Handle(http.MethodPut, "/users/current", user.HandleUpdateCurrent(cfg.Session, cfg.Identity), authen)

	a.Handle(http.MethodGet, "/categories", product.HandleOptions())
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(st))
	a.Handle(http.MethodGet, "/products", product.HandleList(st), optional)
	a.Handle(http.MethodPost, "/products", product.HandleCreate(st), authen)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(st), authen)
	a.Handle(http.MethodDelete, "/products/{id}", product.HandleDelete(st), authen)
	a.Handle(http.MethodGet, "/listings", product.HandleListOwned(st), authen)

	a.Handle(http.MethodPut, "/filters", product.HandleSaveFilter(st), authen)
	a.Handle(http.MethodDelete, "/filters", product.HandleClearFilter(st), authen)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(st), authen)
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(st), authen)
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(st), authen)
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleDeleteItem(st), authen)

	a.Handle(http.MethodPost, "/purchases", purchase.HandleCheckout(st), authen)
	a.Handle(http.MethodGet, "/purchases", purchase.HandleList(st), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}

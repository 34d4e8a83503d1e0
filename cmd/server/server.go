package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/secondhand-market/api"
	"github.com/irsalhamdi/secondhand-market/api/background"
	"github.com/irsalhamdi/secondhand-market/config"
	"github.com/irsalhamdi/secondhand-market/core/auth"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/irsalhamdi/secondhand-market/database"
	"github.com/irsalhamdi/secondhand-market/identity"
	"github.com/irsalhamdi/secondhand-market/rate"
	"github.com/irsalhamdi/secondhand-market/seed"
	"github.com/irsalhamdi/secondhand-market/session/redisstore"
	"github.com/irsalhamdi/secondhand-market/store"
	"github.com/irsalhamdi/secondhand-market/telemetry"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "MARKET"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	shutdownTracing, err := telemetry.Init(cfg.Telemetry, os.Stdout)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	data, err := seed.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		catalog   product.Storer
		purchases purchase.Storer
	)

	if cfg.DB.Host == "" {
		logger.Info("using in-memory catalog and purchase history")
		catalog = product.NewMemoryStore(data.Products, cfg.Catalog.Latency)
		purchases = purchase.NewMemoryStore(data.Purchases)
	} else {
		db, err := database.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to open db connection: %w", err)
		}
		defer db.Close()

		if err := database.StatusCheck(ctx, db); err != nil {
			return fmt.Errorf("database not ready: %w", err)
		}

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		dbCatalog := product.NewDBStore(db)
		n, err := dbCatalog.Seed(ctx, data.Products)
		if err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
		logger.Infof("seeded %d products", n)

		catalog = dbCatalog
		purchases = purchase.NewDBStore(db)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Cookie.Secure = cfg.Session.Secure
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	if cfg.Session.RedisURL != "" {
		rs, err := redisstore.New(ctx, cfg.Session.RedisURL, cfg.Session.Prefix)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer rs.Close()
		sessionManager.Store = rs
	}

	var gateway api.Identity
	if cfg.Identity.URL == "" {
		logger.Info("using in-memory identity provider")
		mem, err := identity.NewMemory(0, data.Accounts...)
		if err != nil {
			return fmt.Errorf("building identity provider: %w", err)
		}
		gateway = mem
	} else {
		gateway = identity.NewGoTrue(cfg.Identity.URL, cfg.Identity.APIKey, cfg.Identity.RedirectURL, cfg.Identity.Timeout)
	}

	dctx, dcancel := context.WithTimeout(ctx, cfg.Oauth.DiscoveryTimeout)
	defer dcancel()
	google := cfg.Oauth.Google
	oauthProvs, err := auth.MakeProviders(dctx, []auth.ProviderConfig{
		{Name: "google", Client: google.Client, Secret: google.Secret, URL: google.URL, RedirectURL: google.RedirectURL},
	})
	if err != nil {
		return fmt.Errorf("failed to discover oauth providers: %w", err)
	}

	bg := background.New(logger)

	st := store.New(catalog, purchases, store.WithNotifier(bg))
	st.Subscribe(store.LogEvents(logger.WithField("component", "store")))

	limiter := rate.NewLimiter(ctx, cfg.RateLimit.Burst, cfg.RateLimit.Expiry, cfg.RateLimit.Interval)

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:       cfg.Cors.Origin,
		Log:              logger,
		Session:          sessionManager,
		Store:            st,
		Identity:         gateway,
		Providers:        oauthProvs,
		LoginRedirectURL: cfg.Oauth.LoginRedirectURL,
		Limiter:          limiter,
	})

	api := http.Server{
		Handler:      telemetry.Handler(mux, cfg.Telemetry.ServiceName),
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		if err := bg.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not complete all background tasks: %w", err)
		}

		if err := shutdownTracing(ctx); err != nil {
			return fmt.Errorf("flushing traces: %w", err)
		}
	}
	return nil
}

package config

import "time"

type Config struct {
	Web       Web
	Cors      Cors
	DB        DB
	Session   Session
	Identity  Identity
	Oauth     Oauth
	Catalog   Catalog
	RateLimit RateLimit
	Telemetry Telemetry
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

// DB is optional: with an empty Host the catalog and purchase history
// live in memory.
type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string
	Name         string `conf:"default:market"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
	Secure   bool          `conf:"default:false"`
	RedisURL string        `conf:"mask"`
	Prefix   string        `conf:"default:market:session:"`
}

// Identity selects the external identity service. An empty URL runs the
// in-memory identity provider seeded with the demo users.
type Identity struct {
	URL         string
	APIKey      string        `conf:"mask"`
	RedirectURL string        `conf:"default:http://localhost:3000/"`
	Timeout     time.Duration `conf:"default:10s"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:10s"`
	LoginRedirectURL string        `conf:"default:http://localhost:3000/"`
	Google           OauthProvider
}

type OauthProvider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string `conf:"default:http://localhost:8000/auth/oauth-callback/google"`
}

type Catalog struct {
	Latency time.Duration `conf:"default:0s"`
}

type RateLimit struct {
	Burst    int           `conf:"default:5"`
	Interval time.Duration `conf:"default:2s"`
	Expiry   time.Duration `conf:"default:10m"`
}

type Telemetry struct {
	Enabled     bool   `conf:"default:false"`
	ServiceName string `conf:"default:secondhand-market"`
}

package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/secondhand-market/api/web"
	"github.com/irsalhamdi/secondhand-market/api/weberr"
)

type allower interface {
	Allow(id string) bool
}

// RateLimit keys clients by remote IP.
func RateLimit(lim allower) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !lim.Allow(ip) {
				return weberr.TooManyRequests(
					errors.New("rate limit exceeded"),
					weberr.WithFields(map[string]interface{}{"client": ip}),
				)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/secondhand-market/api"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/irsalhamdi/secondhand-market/identity"
	"github.com/irsalhamdi/secondhand-market/seed"
	"github.com/irsalhamdi/secondhand-market/store"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"
)

const (
	userEmail = "john@example.com"
	userPass  = "password123"
)

type TestEnv struct {
	*httptest.Server
	Store *store.Store
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	data, err := seed.Load()
	if err != nil {
		t.Fatal(err)
	}

	gw, err := identity.NewMemory(bcrypt.MinCost, data.Accounts...)
	if err != nil {
		t.Fatal(err)
	}

	log, _ := logtest.NewNullLogger()
	st := store.New(product.NewMemoryStore(data.Products, 0), purchase.NewMemoryStore(data.Purchases))

	mux := api.APIMux(api.APIConfig{
		Log:      log,
		Session:  scs.New(),
		Store:    st,
		Identity: gw,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &TestEnv{Server: srv, Store: st}
}

// Client is one browser: it keeps its own session cookie.
type Client struct {
	t    *testing.T
	url  string
	http *http.Client
}

func (env *TestEnv) NewClient(t *testing.T) *Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &Client{t: t, url: env.URL, http: &http.Client{Jar: jar}}
}

// Do sends body as JSON and decodes the response into out when out is
// not nil. It returns the status code.
func (c *Client) Do(method, path string, body, out any) int {
	c.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, c.url+path, rd)
	if err != nil {
		c.t.Fatal(err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := c.http.Do(r)
	if err != nil {
		c.t.Fatal(err)
	}
	defer w.Body.Close()

	if out != nil && w.StatusCode < http.StatusBadRequest && w.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			c.t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}

	return w.StatusCode
}

func (c *Client) Login(email, password string) {
	c.t.Helper()

	cred := map[string]string{"email": email, "password": password}
	if code := c.Do(http.MethodPost, "/auth/login", cred, nil); code != http.StatusOK {
		c.t.Fatalf("login as %s: status %d", email, code)
	}
}

func (c *Client) Signup(email, password, fullName string) {
	c.t.Helper()

	sn := map[string]string{"email": email, "password": password, "fullName": fullName}
	if code := c.Do(http.MethodPost, "/auth/signup", sn, nil); code != http.StatusCreated {
		c.t.Fatalf("signup as %s: status %d", email, code)
	}
}

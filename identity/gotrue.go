package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// GoTrue is a client for a GoTrue compatible auth REST API, such as the
// one behind Supabase projects.
type GoTrue struct {
	baseURL     string
	apiKey      string
	redirectURL string
	client      *http.Client
}

func NewGoTrue(baseURL, apiKey, redirectURL string, timeout time.Duration) *GoTrue {
	return &GoTrue{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		redirectURL: redirectURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func (g *GoTrue) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.failure(path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// failure maps an error response onto the package errors.
func (g *GoTrue) failure(path string, resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &eb)

	msg := eb.Msg
	if msg == "" {
		msg = eb.Message
	}
	if msg == "" {
		msg = eb.ErrorDescription
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	code := eb.ErrorCode
	if code == "" {
		code = eb.Error
	}

	switch {
	case code == "invalid_grant" || code == "invalid_credentials":
		return ErrInvalidCredentials
	case code == "user_already_exists" || code == "email_exists" ||
		strings.Contains(strings.ToLower(msg), "already registered"):
		return ErrUserExists
	case path != "/token" && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden):
		return ErrInvalidSession
	}

	return &Error{Status: resp.StatusCode, Code: code, Message: msg}
}

// SignUp registers a new account. When the service requires email
// confirmation the returned session is pending and only carries the user.
func (g *GoTrue) SignUp(ctx context.Context, email, password string, p Profile) (Session, error) {
	in := struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Data     Profile `json:"data"`
	}{email, password, p}

	var q url.Values
	if g.redirectURL != "" {
		q = url.Values{"redirect_to": {g.redirectURL}}
	}

	var out struct {
		Session
		Identity
	}
	if err := g.do(ctx, http.MethodPost, "/signup", q, "", in, &out); err != nil {
		return Session{}, err
	}

	if out.AccessToken == "" {
		return Session{User: out.Identity}, nil
	}
	return out.Session, nil
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) (Session, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var s Session
	q := url.Values{"grant_type": {"password"}}
	if err := g.do(ctx, http.MethodPost, "/token", q, "", in, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (g *GoTrue) SignOut(ctx context.Context, token string) error {
	return g.do(ctx, http.MethodPost, "/logout", nil, token, nil, nil)
}

func (g *GoTrue) User(ctx context.Context, token string) (Identity, error) {
	var id Identity
	if err := g.do(ctx, http.MethodGet, "/user", nil, token, nil, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// UpdateUser sends only the fields set in up; GoTrue merges them into the
// stored metadata.
func (g *GoTrue) UpdateUser(ctx context.Context, token string, up ProfileUp) (Identity, error) {
	in := struct {
		Data ProfileUp `json:"data"`
	}{up}

	var id Identity
	if err := g.do(ctx, http.MethodPut, "/user", nil, token, in, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Package identity talks to the service that owns user accounts:
// sign up, sign in, sign out, session lookup and profile updates.
package identity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserExists         = errors.New("user already registered")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Error is a failure reported by the identity service that has no
// dedicated sentinel.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity service: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("identity service: %d: %s", e.Status, e.Message)
}

// Profile is the user metadata kept next to the account.
type Profile struct {
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// ProfileUp is a profile change. Nil fields are left alone; a pointer to
// an empty string clears the field.
type ProfileUp struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (p Profile) Merge(up ProfileUp) Profile {
	if up.Username != nil {
		p.Username = *up.Username
	}
	if up.FullName != nil {
		p.FullName = *up.FullName
	}
	if up.Phone != nil {
		p.Phone = *up.Phone
	}
	if up.Address != nil {
		p.Address = *up.Address
	}
	if up.Avatar != nil {
		p.Avatar = *up.Avatar
	}
	return p
}

type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Profile   Profile   `json:"user_metadata"`
}

// Session is a signed-in identity. AccessToken is empty after a sign up
// that still waits for email confirmation.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         Identity `json:"user"`
}

func (s Session) Pending() bool {
	return s.AccessToken == ""
}

// Account seeds the in-memory gateway.
type Account struct {
	Identity
	Password string
}

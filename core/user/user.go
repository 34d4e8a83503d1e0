package user

import (
	"context"
	"encoding/gob"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/secondhand-market/identity"
)

func init() {
	gob.Register(User{})
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserUp struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=40"`
	FullName *string `json:"fullName" validate:"omitempty,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
	Address  *string `json:"address" validate:"omitempty,max=200"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}

// FromIdentity builds the user shown to clients. The username falls back
// to the local part of the email address.
func FromIdentity(id identity.Identity) User {
	u := User{
		ID:        id.ID,
		Username:  id.Profile.Username,
		Email:     id.Email,
		FullName:  id.Profile.FullName,
		Phone:     id.Profile.Phone,
		Address:   id.Profile.Address,
		Avatar:    id.Profile.Avatar,
		CreatedAt: id.CreatedAt,
	}
	if u.Username == "" {
		u.Username, _, _ = strings.Cut(id.Email, "@")
	}
	return u
}

// DisplayName is the name shown next to the user's listings.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Merge applies the fields set in up.
func (u User) Merge(up UserUp) User {
	if up.Username != nil {
		u.Username = *up.Username
	}
	if up.FullName != nil {
		u.FullName = *up.FullName
	}
	if up.Phone != nil {
		u.Phone = *up.Phone
	}
	if up.Address != nil {
		u.Address = *up.Address
	}
	if up.Avatar != nil {
		u.Avatar = *up.Avatar
	}
	return u
}

// Profile is up in the identity service's vocabulary.
func (up UserUp) Profile() identity.ProfileUp {
	return identity.ProfileUp(up)
}

const (
	sessionUser  = "user"
	sessionToken = "access_token"
)

// SaveSession stores the signed-in user and the identity service token.
// Users signed in through an OIDC provider have no token.
func SaveSession(ctx context.Context, sm *scs.SessionManager, u User, token string) {
	sm.Put(ctx, sessionUser, u)
	if token != "" {
		sm.Put(ctx, sessionToken, token)
	} else {
		sm.Remove(ctx, sessionToken)
	}
}

func FromSession(ctx context.Context, sm *scs.SessionManager) (User, bool) {
	u, ok := sm.Get(ctx, sessionUser).(User)
	return u, ok
}

func TokenFromSession(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, sessionToken)
}

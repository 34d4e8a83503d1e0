package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/irsalhamdi/secondhand-market/random"
	"github.com/irsalhamdi/secondhand-market/validate"
	"golang.org/x/crypto/bcrypt"
)

const tokenLength = 40

type account struct {
	identity Identity
	hash     []byte
}

// Memory is an in-process identity service. Sign ups are confirmed
// immediately.
type Memory struct {
	mu       sync.Mutex
	byEmail  map[string]*account
	byID     map[string]*account
	sessions map[string]string
	cost     int
	now      func() time.Time
}

// NewMemory hashes the seed accounts with the given bcrypt cost; a cost of
// zero means bcrypt.DefaultCost.
func NewMemory(cost int, seed ...Account) (*Memory, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	m := &Memory{
		byEmail:  make(map[string]*account),
		byID:     make(map[string]*account),
		sessions: make(map[string]string),
		cost:     cost,
		now:      time.Now,
	}

	for _, a := range seed {
		if _, err := m.add(a.Identity, a.Password); err != nil {
			return nil, fmt.Errorf("seeding account[%s]: %w", a.Email, err)
		}
	}

	return m, nil
}

func (m *Memory) add(id Identity, password string) (*account, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if _, ok := m.byEmail[email]; ok {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id.Email = email
	a := &account{identity: id, hash: hash}
	m.byEmail[email] = a
	m.byID[id.ID] = a
	return a, nil
}

func (m *Memory) session(a *account) (Session, error) {
	access, err := random.StringSecure(tokenLength)
	if err != nil {
		return Session{}, err
	}
	refresh, err := random.StringSecure(tokenLength)
	if err != nil {
		return Session{}, err
	}

	m.sessions[access] = a.identity.ID
	return Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int((time.Hour).Seconds()),
		User:         a.identity,
	}, nil
}

func (m *Memory) SignUp(ctx context.Context, email, password string, p Profile) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.add(Identity{
		ID:        validate.GenerateID(),
		Email:     email,
		CreatedAt: m.now().UTC(),
		Profile:   p,
	}, password)
	if err != nil {
		return Session{}, err
	}

	return m.session(a)
}

func (m *Memory) SignIn(ctx context.Context, email, password string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return m.session(a)
}

func (m *Memory) SignOut(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return ErrInvalidSession
	}
	delete(m.sessions, token)
	return nil
}

func (m *Memory) lookup(token string) (*account, error) {
	id, ok := m.sessions[token]
	if !ok {
		return nil, ErrInvalidSession
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrInvalidSession
	}
	return a, nil
}

func (m *Memory) User(ctx context.Context, token string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.lookup(token)
	if err != nil {
		return Identity{}, err
	}
	return a.identity, nil
}

func (m *Memory) UpdateUser(ctx context.Context, token string, up ProfileUp) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.lookup(token)
	if err != nil {
		return Identity{}, err
	}
	a.identity.Profile = a.identity.Profile.Merge(up)
	return a.identity, nil
}

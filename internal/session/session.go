// Package session manages the stored credential token and the
// bootstrap flow that turns it into an authenticated user.
package session

import (
	"context"
	"time"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/pkg/types"
)

const (
	// DefaultMaxAttempts bounds the startup session check retries.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the fixed pause between those attempts.
	DefaultRetryDelay = time.Second
)

// Manager resolves and mutates the current session. All token writes in
// the program go through a Manager; everything else treats the stored
// token as read-only.
type Manager struct {
	client *api.Client
	store  *Store

	// Retry policy for Bootstrap. Zero values fall back to the defaults.
	MaxAttempts int
	RetryDelay  time.Duration

	now func() time.Time
}

// NewManager creates a session manager around an unauthenticated client
// and a token store.
func NewManager(client *api.Client, store *Store) *Manager {
	return &Manager{
		client:      client,
		store:       store,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
		now:         time.Now,
	}
}

// Session is the resolved authentication state.
type Session struct {
	Authenticated bool
	Token         string
	User          *types.User
}

// Client returns an API client authorized with the session token, or
// the unauthenticated base client when logged out.
func (m *Manager) Client() *api.Client {
	if token := m.store.Token(); token != "" {
		return m.client.WithAuth(token)
	}
	return m.client
}

// Bootstrap resolves whether the stored token represents a live session.
// Transient failures are retried a bounded number of times with a fixed
// delay; exhausting them degrades to logged-out and clears the token
// rather than surfacing an error, so callers can route to the login
// flow. Safe to call repeatedly.
func (m *Manager) Bootstrap(ctx context.Context) (*Session, error) {
	token := m.store.Token()
	if token == "" {
		return &Session{}, nil
	}
	if tokenExpired(token, m.now()) {
		_ = m.store.Clear()
		return &Session{}, nil
	}

	client := m.client.WithAuth(token)
	attempts := m.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	delay := m.RetryDelay
	if delay < 0 {
		delay = DefaultRetryDelay
	}

	for attempt := 1; ; attempt++ {
		user, err := client.Me(ctx)
		if err == nil {
			if user == nil {
				// Authenticated transport but no user payload; the
				// token is useless.
				_ = m.store.Clear()
				return &Session{}, nil
			}
			return &Session{Authenticated: true, Token: token, User: user}, nil
		}

		if api.IsTransient(err) && attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		// Rejected token, or retries exhausted: soft-fail to logged out.
		_ = m.store.Clear()
		return &Session{}, nil
	}
}

// Login performs a single login call; on success the returned token is
// stored. A failure leaves any previously stored token untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.SetToken(resp.Token); err != nil {
		return nil, err
	}
	user := resp.User
	return &Session{Authenticated: true, Token: resp.Token, User: &user}, nil
}

// Register creates an account and stores its first session token.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*Session, error) {
	resp, err := m.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.SetToken(resp.Token); err != nil {
		return nil, err
	}
	user := resp.User
	return &Session{Authenticated: true, Token: resp.Token, User: &user}, nil
}

// Logout clears the stored token. Purely local; the server keeps no
// session state worth revoking here.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"

	"github.com/matrixlogger/mxl/internal/config"
)

// credentials is the on-disk token record
type credentials struct {
	Token     string    `yaml:"token,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// Store persists the session token under the mxl config directory.
// The credentials file is written with 0600 since the token grants
// full account access.
type Store struct {
	path string
}

// NewStore creates a store rooted at ~/.mxl/credentials.yaml
func NewStore() *Store {
	return &Store{path: filepath.Join(config.GetConfigDir(), "credentials.yaml")}
}

// NewStoreAt creates a store with an explicit path (used by tests)
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored token, or "" when none is stored.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var creds credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.Token
}

// SetToken stores a token, creating the config directory if needed.
func (s *Store) SetToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(credentials{Token: token, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// tokenExpired reports whether token is a JWT with an exp claim in the
// past. Tokens that are not JWTs, or carry no expiry, count as live;
// only the server can judge those. The signature is deliberately not
// verified here, the claim is only used to skip a doomed round-trip.
func tokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matrixlogger/mxl/internal/api"
)

func newTestManager(t *testing.T, serverURL string) *Manager {
	t.Helper()
	store := NewStoreAt(filepath.Join(t.TempDir(), "credentials.yaml"))
	mgr := NewManager(api.NewClient(serverURL), store)
	mgr.RetryDelay = time.Millisecond
	return mgr
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBootstrapNoToken(t *testing.T) {
	mgr := newTestManager(t, "http://127.0.0.1:0")

	sess, err := mgr.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if sess.Authenticated {
		t.Fatal("authenticated without a stored token")
	}
}

func TestBootstrapValidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want Bearer tok-123", got)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user": map[string]string{"id": "u1", "name": "Ada", "email": "ada@example.com"},
		})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	if err := mgr.store.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}

	sess, err := mgr.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !sess.Authenticated {
		t.Fatal("not authenticated with a valid token")
	}
	if sess.User.Email != "ada@example.com" {
		t.Errorf("user email = %q", sess.User.Email)
	}
}

// All attempts failing degrades to logged out and clears the token;
// the startup check never surfaces a transport error.
func TestBootstrapRetriesThenClearsToken(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "database down"})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	if err := mgr.store.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}

	sess, err := mgr.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if sess.Authenticated {
		t.Fatal("authenticated after exhausted retries")
	}
	if calls != DefaultMaxAttempts {
		t.Errorf("server saw %d attempts, want %d", calls, DefaultMaxAttempts)
	}
	if got := mgr.store.Token(); got != "" {
		t.Errorf("token still stored after failed bootstrap: %q", got)
	}
}

// A 401 is a verdict, not a transient failure; it is not retried.
func TestBootstrapRejectedTokenNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	if err := mgr.store.SetToken("tok-stale"); err != nil {
		t.Fatal(err)
	}

	sess, err := mgr.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if sess.Authenticated {
		t.Fatal("authenticated with rejected token")
	}
	if calls != 1 {
		t.Errorf("server saw %d attempts, want 1", calls)
	}
	if mgr.store.Token() != "" {
		t.Error("rejected token not cleared")
	}
}

func TestBootstrapEmptyUserPayloadClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	if err := mgr.store.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}

	sess, err := mgr.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if sess.Authenticated {
		t.Fatal("authenticated with empty user payload")
	}
	if mgr.store.Token() != "" {
		t.Error("token not cleared on empty user payload")
	}
}

// An expired JWT is cleared locally without any request.
func TestBootstrapExpiredJWTSkipsNetwork(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": map[string]string{"id": "u1"}})
	}))
	defer server.Close()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}

	mgr := newTestManager(t, server.URL)
	if err := mgr.store.SetToken(signed); err != nil {
		t.Fatal(err)
	}

	sess, err := mgr.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if sess.Authenticated {
		t.Fatal("authenticated with expired token")
	}
	if calls != 0 {
		t.Errorf("server saw %d requests, want 0", calls)
	}
	if mgr.store.Token() != "" {
		t.Error("expired token not cleared")
	}
}

func TestLoginSuccessStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ada@example.com" {
			t.Errorf("login email = %q", body["email"])
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token": "tok-new",
			"user":  map[string]string{"id": "u1", "name": "Ada", "email": "ada@example.com"},
		})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	sess, err := mgr.Login(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.Authenticated {
		t.Fatal("not authenticated after login")
	}
	if got := mgr.store.Token(); got != "tok-new" {
		t.Errorf("stored token = %q, want tok-new", got)
	}
}

// Wrong credentials surface the server's message and leave no user
// and no new token behind.
func TestLoginInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	sess, err := mgr.Login(context.Background(), "user@example.com", "wrongpass")
	if err == nil {
		t.Fatal("Login succeeded with wrong password")
	}
	if sess != nil {
		t.Fatal("session returned on failed login")
	}
	if !api.IsUnauthorized(err) {
		t.Errorf("error not a 401: %v", err)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Errorf("error = %v, want server message surfaced", err)
	}
	if mgr.store.Token() != "" {
		t.Error("token stored despite failed login")
	}
}

// A failed login must not disturb an existing stored token.
func TestLoginFailureKeepsPriorToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	if err := mgr.store.SetToken("tok-old"); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Login(context.Background(), "user@example.com", "wrongpass"); err == nil {
		t.Fatal("Login succeeded with wrong password")
	}
	if got := mgr.store.Token(); got != "tok-old" {
		t.Errorf("stored token = %q, want tok-old untouched", got)
	}
}

func TestRegisterStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"token": "tok-reg",
			"user":  map[string]string{"id": "u2", "name": "Grace", "email": "grace@example.com"},
		})
	}))
	defer server.Close()

	mgr := newTestManager(t, server.URL)
	sess, err := mgr.Register(context.Background(), "Grace", "grace@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.User.Name != "Grace" {
		t.Errorf("user name = %q", sess.User.Name)
	}
	if mgr.store.Token() != "tok-reg" {
		t.Errorf("stored token = %q, want tok-reg", mgr.store.Token())
	}
}

func TestLogoutClearsToken(t *testing.T) {
	mgr := newTestManager(t, "http://127.0.0.1:0")
	if err := mgr.store.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if mgr.store.Token() != "" {
		t.Error("token survived logout")
	}
	// Idempotent.
	if err := mgr.Logout(); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

// authServer accepts exactly one token and serves login plus /users/me.
func authServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "Sup3rSecret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(api.ErrorResponse(api.ErrorFromCode(api.CodeAuth, "bad credentials")))
			return
		}
		json.NewEncoder(w).Encode(api.SuccessResponse(tokenResponse{Token: validToken}, ""))
	})
	mux.HandleFunc("GET /api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(api.ErrorResponse(api.ErrorFromCode(api.CodeAuth, "invalid or expired token")))
			return
		}
		profile := api.Profile{ID: uuid.New(), Username: "alice", Role: api.RoleUser}
		json.NewEncoder(w).Encode(api.SuccessResponse(profile, ""))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, baseURL string) *Session {
	t.Helper()
	tokenPath := filepath.Join(t.TempDir(), "token")
	s, err := NewSession(New(baseURL), WithTokenPath(tokenPath))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestRestoreColdStart(t *testing.T) {
	srv := authServer(t, "good-token")
	s := newTestSession(t, srv.URL)

	if s.Initialized() {
		t.Fatal("session initialized before restore")
	}
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("restore with no token file: %v", err)
	}
	if !s.Initialized() {
		t.Error("session not initialized after restore")
	}
	if s.IsAuthenticated() {
		t.Error("cold start must be unauthenticated")
	}
}

func TestRestoreWithExpiredToken(t *testing.T) {
	srv := authServer(t, "good-token")
	s := newTestSession(t, srv.URL)

	if err := os.WriteFile(s.tokenPath, []byte("stale-token"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("restore with expired token must not error: %v", err)
	}
	if !s.Initialized() {
		t.Error("session not initialized after restore")
	}
	if s.IsAuthenticated() {
		t.Error("expired token must leave the session unauthenticated")
	}
	if _, err := os.Stat(s.tokenPath); !os.IsNotExist(err) {
		t.Error("stale token file should be removed")
	}
}

func TestLoginPersistsTokenAcrossSessions(t *testing.T) {
	srv := authServer(t, "good-token")
	s := newTestSession(t, srv.URL)

	if err := s.Login(context.Background(), "alice", "Sup3rSecret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatal("login did not authenticate the session")
	}
	if p := s.Principal(); p == nil || p.Username != "alice" {
		t.Errorf("principal = %v, want alice", p)
	}

	// A fresh session over the same token file restores to logged in.
	s2, err := NewSession(New(srv.URL), WithTokenPath(s.tokenPath))
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	if err := s2.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !s2.IsAuthenticated() {
		t.Error("restored session should be authenticated")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := authServer(t, "good-token")
	s := newTestSession(t, srv.URL)

	err := s.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, api.ErrAuth) {
		t.Errorf("got %v, want ErrAuth", err)
	}
	if s.IsAuthenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	srv := authServer(t, "good-token")
	s := newTestSession(t, srv.URL)

	if err := s.Login(context.Background(), "alice", "Sup3rSecret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.IsAuthenticated() || s.IsAdmin() {
		t.Error("logout left the session authenticated")
	}
	if _, err := os.Stat(s.tokenPath); !os.IsNotExist(err) {
		t.Error("logout should remove the token file")
	}
}

func TestRestoreServerUnreachable(t *testing.T) {
	srv := authServer(t, "good-token")
	s := newTestSession(t, srv.URL)
	if err := os.WriteFile(s.tokenPath, []byte("some-token"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	srv.Close()

	err := s.Restore(context.Background())
	if !errors.Is(err, api.ErrNetwork) {
		t.Errorf("got %v, want ErrNetwork", err)
	}
	if !s.Initialized() {
		t.Error("session must still initialize when the server is down")
	}
	if s.IsAuthenticated() {
		t.Error("unreachable server must not authenticate")
	}
}

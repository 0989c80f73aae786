package client

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mishgunpstlt/EventsApp/pkg/api"
)

// Session owns the persisted token and the cached principal. It goes
// through an explicit restore step at startup: until Restore has run, the
// session reports not initialized and consumers should hold rendering
// decisions that depend on who the caller is.
type Session struct {
	client    *Client
	tokenPath string

	mu          sync.RWMutex
	initialized bool
	profile     *api.Profile
}

type SessionOption func(*Session)

// WithTokenPath overrides where the token is persisted.
func WithTokenPath(path string) SessionOption {
	return func(s *Session) { s.tokenPath = path }
}

func NewSession(client *Client, opts ...SessionOption) (*Session, error) {
	s := &Session{client: client}
	for _, opt := range opts {
		opt(s)
	}
	if s.tokenPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		s.tokenPath = filepath.Join(dir, "eventsapp", "token")
	}
	return s, nil
}

// Restore loads the persisted token and validates it against the server. A
// missing, expired or revoked token leaves the session initialized but
// unauthenticated, with no error: that is a normal cold start. Only a
// transport failure is reported, and the session still counts as
// initialized so the caller is not stuck waiting.
func (s *Session) Restore(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}()

	raw, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return nil
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return nil
	}

	s.client.setToken(token)

	var profile api.Profile
	err = s.client.do(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &profile)
	switch {
	case err == nil:
		s.mu.Lock()
		s.profile = &profile
		s.mu.Unlock()
		return nil
	case errors.Is(err, api.ErrAuth):
		s.client.setToken("")
		_ = os.Remove(s.tokenPath)
		return nil
	default:
		s.client.setToken("")
		return err
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "/api/v1/auth/login", username, password)
}

// Register creates the account and leaves the session logged in.
func (s *Session) Register(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "/api/v1/auth/register", username, password)
}

func (s *Session) authenticate(ctx context.Context, path, username, password string) error {
	var tr tokenResponse
	if err := s.client.do(ctx, http.MethodPost, path, nil, credentials{Username: username, Password: password}, &tr); err != nil {
		return err
	}

	s.client.setToken(tr.Token)
	if err := s.persistToken(tr.Token); err != nil {
		return err
	}

	var profile api.Profile
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &profile); err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = &profile
	s.initialized = true
	s.mu.Unlock()
	return nil
}

func (s *Session) persistToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, []byte(token), 0o600)
}

// Logout drops the token locally. There is no server-side session to end.
func (s *Session) Logout() error {
	s.client.setToken("")
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()

	err := os.Remove(s.tokenPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil && s.profile.Role == api.RoleAdmin
}

// Principal returns a copy of the cached profile, or nil when logged out.
func (s *Session) Principal() *api.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// RefreshProfile re-reads /users/me, for after a profile update.
func (s *Session) RefreshProfile(ctx context.Context) (*api.Profile, error) {
	var profile api.Profile
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	p := profile
	return &p, nil
}

// UpdateProfile pushes the editable fields and refreshes the cached copy.
func (s *Session) UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (*api.Profile, error) {
	var profile api.Profile
	if err := s.client.do(ctx, http.MethodPut, "/api/v1/users/me", nil, upd, &profile); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	p := profile
	return &p, nil
}

package service

import (
	"context"
	"log/slog"
	"sync"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra/storage"

	"github.com/go-playground/validator/v10"
)

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Session holds the operator's authentication state. The token is kept
// in memory and mirrored to local storage so a restarted console resumes
// the same session until the backend rejects it.
type Session struct {
	mu       sync.RWMutex
	token    string
	store    *storage.Storage
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSession restores any persisted token from local storage.
func NewSession(store *storage.Storage, logger *slog.Logger) *Session {
	s := &Session{
		store:    store,
		validate: validator.New(),
		logger:   logger.With("module", "session"),
	}
	if token, err := store.LoadSessionToken(); err == nil && token != "" {
		s.token = token
		s.logger.Info("restored persisted session")
	}
	return s
}

// Token returns the current bearer token, empty when logged out. Safe to
// hand to the backend client as a token source.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Login validates the form, exchanges credentials for a token and
// persists it. The api client is passed in rather than held to keep the
// token source wiring acyclic.
func (s *Session) Login(ctx context.Context, api *backend.Client, creds Credentials) error {
	if err := s.validate.Struct(creds); err != nil {
		return &domain.PreconditionError{
			Resource: "session",
			Reason:   "username and password are required",
		}
	}

	token, err := api.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.SaveSessionToken(token); err != nil {
		s.logger.Warn("could not persist session token", "error", err)
	}
	s.logger.Info("operator logged in", "user", creds.Username)
	return nil
}

// Logout discards the token locally. No backend call is made; the token
// simply stops being attached to requests.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.ClearSessionToken(); err != nil {
		s.logger.Warn("could not clear persisted token", "error", err)
	}
	s.logger.Info("operator logged out")
}

// Expire is called when the backend answers 401 mid-session: the local
// token is discarded and the operator must log in again.
func (s *Session) Expire() {
	if !s.Authenticated() {
		return
	}
	s.logger.Warn("session rejected by backend, forcing re-login")
	s.Logout()
}

package auth

import (
	"context"
	"strings"

	"dinebook/internal/cms"
	"dinebook/internal/domain"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
)

// Store owns the session lifecycle: login/signup persist the session
// to device storage, logout clears it unconditionally. A failed login
// never disturbs an existing valid session.
//
// Store implements cms.TokenSource, so the client picks up the bearer
// token automatically once authenticated.
type Store struct {
	client  domain.AuthClient
	storage domain.SessionStore
	logger  *zerolog.Logger

	session *models.Session
}

func NewStore(client domain.AuthClient, storage domain.SessionStore, logger *zerolog.Logger) *Store {
	return &Store{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

// Restore loads a previously persisted session from device storage.
// A malformed token on disk is discarded rather than forwarded.
func (s *Store) Restore(ctx context.Context) error {
	session, err := s.storage.LoadSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	if !WellFormedToken(session.Token) {
		s.logger.Warn().Msg("persisted session token is malformed, discarding")
		return s.storage.ClearSession(ctx)
	}
	s.session = session
	return nil
}

func (s *Store) Login(ctx context.Context, creds cms.Credentials) (*models.Session, error) {
	session, err := s.client.Login(ctx, creds)
	if err != nil {
		// Existing session, if any, stays untouched.
		return nil, err
	}
	return session, s.adopt(ctx, session)
}

func (s *Store) Signup(ctx context.Context, data cms.SignupData) (*models.Session, error) {
	session, err := s.client.Signup(ctx, data)
	if err != nil {
		return nil, err
	}
	return session, s.adopt(ctx, session)
}

func (s *Store) adopt(ctx context.Context, session *models.Session) error {
	s.session = session
	if err := s.storage.SaveSession(ctx, session); err != nil {
		// The in-memory session is still valid for this run.
		s.logger.Error().Err(err).Msg("failed to persist session")
		return err
	}
	return nil
}

// Logout clears the session unconditionally, in memory and on disk.
func (s *Store) Logout(ctx context.Context) error {
	s.session = nil
	return s.storage.ClearSession(ctx)
}

func (s *Store) Authenticated() bool {
	return s.session != nil && WellFormedToken(s.session.Token)
}

func (s *Store) User() *models.User {
	if s.session == nil {
		return nil
	}
	user := s.session.User
	return &user
}

// SetUser updates the cached user after a profile edit.
func (s *Store) SetUser(ctx context.Context, user models.User) error {
	if s.session == nil {
		return nil
	}
	s.session.User = user
	return s.storage.SaveSession(ctx, s.session)
}

// Token implements cms.TokenSource. Empty when not authenticated.
func (s *Store) Token() string {
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// WellFormedToken checks token shape only: three non-empty dot-joined
// segments, the usual JWT layout. The backend is the authority on
// validity; the client never verifies a signature.
func WellFormedToken(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}

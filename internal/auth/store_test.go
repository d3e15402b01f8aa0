package auth

import (
	"context"
	"errors"
	"testing"

	"dinebook/internal/cms"
	"dinebook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodToken = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjMifQ.c2ln"

type fakeAuthClient struct {
	session *models.Session
	err     error
}

func (f *fakeAuthClient) Login(ctx context.Context, creds cms.Credentials) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeAuthClient) Signup(ctx context.Context, data cms.SignupData) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeAuthClient) GetProfile(ctx context.Context) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthClient) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	return &user, nil
}

type memorySessionStore struct {
	session *models.Session
	saveErr error
}

func (m *memorySessionStore) SaveSession(ctx context.Context, session *models.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.session = session
	return nil
}

func (m *memorySessionStore) LoadSession(ctx context.Context) (*models.Session, error) {
	return m.session, nil
}

func (m *memorySessionStore) ClearSession(ctx context.Context) error {
	m.session = nil
	return nil
}

func newTestStore(client *fakeAuthClient, storage *memorySessionStore) *Store {
	logger := zerolog.Nop()
	return NewStore(client, storage, &logger)
}

func TestWellFormedToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid jwt shape", goodToken, true},
		{"two segments", "aaa.bbb", false},
		{"four segments", "a.b.c.d", false},
		{"empty middle segment", "a..c", false},
		{"empty string", "", false},
		{"no dots", "plaintoken", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WellFormedToken(tt.token))
		})
	}
}

func TestLoginPersistsSession(t *testing.T) {
	session := &models.Session{Token: goodToken, User: models.User{ID: "u1", Name: "Alice"}}
	storage := &memorySessionStore{}
	s := newTestStore(&fakeAuthClient{session: session}, storage)

	got, err := s.Login(context.Background(), cms.Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.True(t, s.Authenticated())
	assert.Equal(t, goodToken, s.Token())
	assert.Equal(t, session, storage.session, "session persisted to device storage")
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	session := &models.Session{Token: goodToken, User: models.User{ID: "u1"}}
	storage := &memorySessionStore{session: session}
	client := &fakeAuthClient{session: session}
	s := newTestStore(client, storage)
	require.NoError(t, s.Restore(context.Background()))
	require.True(t, s.Authenticated())

	client.err = errors.New("invalid credentials")
	_, err := s.Login(context.Background(), cms.Credentials{Email: "a@b.c", Password: "wrong"})
	require.Error(t, err)

	assert.True(t, s.Authenticated(), "existing session survives a failed login")
	assert.Equal(t, goodToken, s.Token())
}

func TestRestoreDiscardsMalformedToken(t *testing.T) {
	storage := &memorySessionStore{session: &models.Session{Token: "garbage"}}
	s := newTestStore(&fakeAuthClient{}, storage)

	require.NoError(t, s.Restore(context.Background()))

	assert.False(t, s.Authenticated())
	assert.Nil(t, storage.session, "malformed session cleared from storage")
}

func TestRestoreWithNoSession(t *testing.T) {
	s := newTestStore(&fakeAuthClient{}, &memorySessionStore{})
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
}

func TestLogoutClearsEverything(t *testing.T) {
	session := &models.Session{Token: goodToken}
	storage := &memorySessionStore{session: session}
	s := newTestStore(&fakeAuthClient{session: session}, storage)
	require.NoError(t, s.Restore(context.Background()))
	require.True(t, s.Authenticated())

	require.NoError(t, s.Logout(context.Background()))

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, storage.session)
}

func TestSignupPersistsSession(t *testing.T) {
	session := &models.Session{Token: goodToken, User: models.User{ID: "u2", Name: "Bob"}}
	storage := &memorySessionStore{}
	s := newTestStore(&fakeAuthClient{session: session}, storage)

	_, err := s.Signup(context.Background(), cms.SignupData{Name: "Bob", Email: "b@c.d", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "Bob", s.User().Name)
}

func TestSetUserUpdatesCachedProfile(t *testing.T) {
	session := &models.Session{Token: goodToken, User: models.User{ID: "u1", Name: "Alice"}}
	storage := &memorySessionStore{}
	s := newTestStore(&fakeAuthClient{session: session}, storage)
	_, err := s.Login(context.Background(), cms.Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, s.SetUser(context.Background(), models.User{ID: "u1", Name: "Alicia"}))
	assert.Equal(t, "Alicia", s.User().Name)
	assert.Equal(t, "Alicia", storage.session.User.Name)
}

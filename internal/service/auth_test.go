package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/testutil"
	"github.com/Skotchmaster/catalog/internal/tokens"
	"github.com/Skotchmaster/catalog/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

func newAuth(t *testing.T) (*AuthService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return &AuthService{
		Repo:      repo.New(testutil.OpenDB(t)),
		JWTSecret: testSecret,
		TTL:       time.Hour,
		Events:    pub,
	}, pub
}

func register(t *testing.T, s *AuthService, email string) {
	t.Helper()
	_, err := s.Register(context.Background(), transport.RegisterRequest{Name: "Ann", Email: email, Password: "secret123"})
	require.NoError(t, err)
}

func TestAuthService_Register(t *testing.T) {
	s, pub := newAuth(t)

	u, err := s.Register(context.Background(), transport.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, hash.CheckPassword(u.PasswordHash, "secret123"))

	require.Len(t, pub.sent, 1)
	assert.Equal(t, events.UserTopic, pub.sent[0].topic)
	assert.Equal(t, events.UserRegistered, pub.sent[0].event.(events.UserEvent).Type)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	s, _ := newAuth(t)
	register(t, s, "ann@example.com")

	_, err := s.Register(context.Background(), transport.RegisterRequest{Name: "Other", Email: "ann@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	s, _ := newAuth(t)
	register(t, s, "ann@example.com")

	res, err := s.Login(context.Background(), transport.LoginRequest{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.EqualValues(t, 3600, res.ExpiresIn)
	assert.Equal(t, "ann@example.com", res.User.Email)

	claims, err := tokens.Parse(res.AccessToken, testSecret)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, uid)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	s, _ := newAuth(t)
	register(t, s, "ann@example.com")
	ctx := context.Background()

	_, err := s.Login(ctx, transport.LoginRequest{Email: "ann@example.com", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_MeAndLogout(t *testing.T) {
	s, _ := newAuth(t)
	register(t, s, "ann@example.com")
	ctx := context.Background()

	res, err := s.Login(ctx, transport.LoginRequest{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := tokens.Parse(res.AccessToken, testSecret)
	require.NoError(t, err)

	me, err := s.Me(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)

	revoked, err := s.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Logout(ctx, claims))

	revoked, err = s.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := s.PurgeRevoked(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthService_Me_UserGone(t *testing.T) {
	s, _ := newAuth(t)
	issued, err := tokens.Issue(77, testSecret, time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Parse(issued.Token, testSecret)
	require.NoError(t, err)

	_, err = s.Me(context.Background(), claims)
	require.ErrorIs(t, err, ErrNotFound)
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/tokens"
)

var secret = []byte("test-secret")

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func run(t *testing.T, header string, revoked revokedSet) (*tokens.Claims, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *tokens.Claims
	h := RequireAuth(secret, revoked)(func(c echo.Context) error {
		seen, _ = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return seen, err
}

func TestRequireAuth_ValidToken(t *testing.T) {
	issued, err := tokens.Issue(5, secret, time.Hour)
	require.NoError(t, err)

	claims, err := run(t, "Bearer "+issued.Token, revokedSet{})
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, issued.JTI, claims.ID)
}

func TestRequireAuth_Missing(t *testing.T) {
	_, err := run(t, "", nil)
	require.ErrorIs(t, err, ErrTokenAbsent)

	_, err = run(t, "Basic dXNlcjpwYXNz", nil)
	require.ErrorIs(t, err, ErrTokenAbsent)
}

func TestRequireAuth_Invalid(t *testing.T) {
	_, err := run(t, "Bearer garbage", nil)
	require.ErrorIs(t, err, ErrUnauthenticated)

	expired, issueErr := tokens.Issue(5, secret, -time.Minute)
	require.NoError(t, issueErr)
	_, err = run(t, "Bearer "+expired.Token, nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRequireAuth_Revoked(t *testing.T) {
	issued, err := tokens.Issue(5, secret, time.Hour)
	require.NoError(t, err)

	claims, err := run(t, "Bearer "+issued.Token, revokedSet{issued.JTI: true})
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, claims)
}

func TestHasBearer(t *testing.T) {
	assert.True(t, hasBearer("Bearer abc"))
	assert.True(t, hasBearer("bearer abc"))
	assert.False(t, hasBearer("Bearer "))
	assert.False(t, hasBearer("Token abc"))
	assert.False(t, hasBearer(""))
}

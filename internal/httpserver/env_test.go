package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/testutil"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	T   *testing.T
	E   *echo.Echo
	DB  *gorm.DB
	Svc *service.CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithIndex(t, nil)
}

func newTestEnvWithIndex(t *testing.T, ix service.ProductIndex) *testEnv {
	t.Helper()

	gdb := testutil.OpenDB(t)
	r := repo.New(gdb)
	catalog := &service.CatalogService{Repo: r, Events: events.Nop{}}
	if ix != nil {
		catalog.Index = ix
	}
	authSvc := &service.AuthService{Repo: r, JWTSecret: testSecret, TTL: time.Hour, Events: events.Nop{}}

	e := New(logging.NewWithWriter(io.Discard, "error"), &Deps{
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		JWTSecret:      testSecret,
		Revocations:    authSvc,
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	return &testEnv{T: t, E: e, DB: gdb, Svc: catalog}
}

// do sends a request through the full middleware stack. body may be nil, a
// string sent verbatim, or a value encoded as JSON.
func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(env.T, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

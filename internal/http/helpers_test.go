package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"chickstage-backend-go/internal/config"
	"chickstage-backend-go/internal/content"
	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/records"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  last_login_at TIMESTAMP NULL
);
CREATE TABLE server_metric_samples (
  id TEXT PRIMARY KEY,
  captured_at TIMESTAMP NOT NULL,
  heap_used_bytes INTEGER NOT NULL,
  heap_max_bytes INTEGER NOT NULL,
  system_memory_total_bytes INTEGER NOT NULL,
  system_memory_used_bytes INTEGER NOT NULL,
  disk_total_bytes INTEGER NOT NULL,
  disk_used_bytes INTEGER NOT NULL,
  process_cpu_load REAL NOT NULL,
  system_cpu_load REAL NOT NULL
);
CREATE TABLE site_visits (
  id TEXT PRIMARY KEY,
  ip_address TEXT NULL,
  user_agent TEXT NULL,
  path TEXT NULL,
  referrer TEXT NULL,
  created_at TIMESTAMP NOT NULL
);`

type testEnv struct {
	server *Server
	store  *records.MemoryStore
	db     *sqlx.DB
	router http.Handler
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "chickstage-test",
		AccessTTLSeconds:  3600,
		RefreshTTLSeconds: 86400,
	}
}

// newTestEnv serves collections from a MemoryStore and users, visits and
// metrics from an in-memory sqlite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	catalog, err := content.Default()
	require.NoError(t, err)
	store := records.NewMemoryStore()
	server, err := NewServer(db, store, testConfig(), catalog, nil, nil)
	require.NoError(t, err)
	server.Now = func() time.Time { return time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC) }
	return &testEnv{server: server, store: store, db: db, router: server.Router()}
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()
	token, _, err := e.server.Tokens.CreateAccessToken("user-"+strings.ToLower(role), strings.ToLower(role)+"@chickstage.test", role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.token(t, models.RoleAdmin)
}

func (e *testEnv) do(t *testing.T, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(t *testing.T, target, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: accessCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) getPage(t *testing.T, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: accessCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(raw))
}

package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accessCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == accessCookie {
			return c
		}
	}
	return nil
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", jsonBody(t, map[string]string{
		"email": "Jane@Farm.test", "password": "secret1", "fullName": "Jane Doe", "farmLocation": "Nakuru",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[RegisterResponse](t, rec)
	assert.Equal(t, "jane@farm.test", registered.User.Email)
	assert.Equal(t, models.RoleFarmer, registered.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", jsonBody(t, LoginRequest{Email: "jane@farm.test", Password: "secret1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[services.Session](t, rec)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, registered.User.ID, session.User.ID)

	rec = env.do(t, http.MethodGet, "/api/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]map[string]any](t, rec)
	assert.Equal(t, "jane@farm.test", me["user"]["email"])
	assert.Equal(t, "Jane Doe", me["profile"]["full_name"])
	assert.Equal(t, "Nakuru", me["profile"]["farm_location"])
	assert.Equal(t, "beginner", me["profile"]["experience_level"])

	rec = env.do(t, http.MethodPost, "/api/auth/refresh", "", jsonBody(t, RefreshRequest{RefreshToken: session.RefreshToken}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[services.Session](t, rec).AccessToken)
}

func TestAuthAPIErrors(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.server.Accounts.Register(context.Background(), services.RegisterInput{Email: "jane@farm.test", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		target  string
		body    any
		status  int
		message string
	}{
		{"duplicate email", "/api/auth/register", map[string]string{"email": "JANE@farm.test", "password": "secret1"}, http.StatusConflict, "User already exists"},
		{"short password", "/api/auth/register", map[string]string{"email": "new@farm.test", "password": "abc"}, http.StatusBadRequest, "Password must be at least 6 characters"},
		{"bad payload", "/api/auth/register", "nope", http.StatusBadRequest, "Invalid payload"},
		{"wrong password", "/api/auth/login", LoginRequest{Email: "jane@farm.test", Password: "wrong-pass"}, http.StatusUnauthorized, "Authentication failed"},
		{"unknown user", "/api/auth/login", LoginRequest{Email: "ghost@farm.test", Password: "secret1"}, http.StatusUnauthorized, "Authentication failed"},
		{"bad refresh token", "/api/auth/refresh", RefreshRequest{RefreshToken: "garbage"}, http.StatusUnauthorized, "Authentication failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.target, "", jsonBody(t, tt.body))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode[ErrorResponse](t, rec).Message)
		})
	}

	rec := env.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/me", env.adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	cookie := accessCookieFrom(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)

	rec = env.postForm(t, "/auth/logout", "", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestFormLoginRedirects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.server.Accounts.Register(ctx, services.RegisterInput{Email: "farmer@farm.test", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, env.server.Accounts.EnsureAdmin(ctx, "admin@farm.test", "admin-pass"))

	rec := env.postForm(t, "/auth/login", "", url.Values{"email": {"farmer@farm.test"}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookie := accessCookieFrom(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	rec = env.postForm(t, "/auth/login", "", url.Values{"email": {"admin@farm.test"}, "password": {"admin-pass"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	adminCookie := accessCookieFrom(rec)
	require.NotNil(t, adminCookie)

	page := env.getPage(t, "/admin", adminCookie.Value)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "admin@farm.test")

	rec = env.postForm(t, "/auth/login", "", url.Values{
		"email": {"admin@farm.test"}, "password": {"admin-pass"}, "next": {"/admin/courses"},
	})
	assert.Equal(t, "/admin/courses", rec.Header().Get("Location"))

	rec = env.postForm(t, "/auth/login", "", url.Values{
		"email": {"admin@farm.test"}, "password": {"admin-pass"}, "next": {"https://evil.test"},
	})
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestFormLoginFailureRendersAuthPage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.postForm(t, "/auth/login", "", url.Values{"email": {"ghost@farm.test"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Authentication failed")
	assert.Contains(t, body, `value="ghost@farm.test"`)
	assert.Nil(t, accessCookieFrom(rec))
}

func TestFormRegister(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"email": {"new@farm.test"}, "password": {"secret1"}, "fullName": {"New Farmer"}, "experienceLevel": {"advanced"}}

	rec := env.postForm(t, "/auth/register", "", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotNil(t, accessCookieFrom(rec))

	rec = env.postForm(t, "/auth/register", "", form)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestAuthPageKeepsNext(t *testing.T) {
	env := newTestEnv(t)
	rec := env.getPage(t, "/auth?next=%2Fadmin%2Fcourses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="next" value="/admin/courses"`)
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"/admin", "/admin"},
		{" /admin/courses ", "/admin/courses"},
		{"", ""},
		{"admin", ""},
		{"//evil.test", ""},
		{"https://evil.test", ""},
		{`/\evil.test`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(tt.raw))
		})
	}
}

func TestMetricsSocketRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/ws/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/ws/metrics?token="+url.QueryEscape(env.token(t, models.RoleFarmer)), "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// an admin without an upgrade handshake is rejected by the upgrader
	rec = env.do(t, http.MethodGet, "/ws/metrics?token="+url.QueryEscape(env.adminToken(t)), "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "Not allowed"))

	req := httptest.NewRequest(http.MethodGet, "/ws/metrics?token="+url.QueryEscape(env.adminToken(t)), nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsSocketOrigin(t *testing.T) {
	env := newTestEnv(t)
	env.server.Config.CorsOrigins = []string{"https://admin.chickstage.test"}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"same host", "http://example.com", true},
		{"configured origin", "https://admin.chickstage.test", true},
		{"other site", "https://evil.test", false},
		{"malformed", "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws/metrics", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, env.server.checkOrigin(req))
		})
	}

	env.server.Config.CorsOrigins = nil
	req := httptest.NewRequest(http.MethodGet, "/ws/metrics", nil)
	req.Header.Set("Origin", "https://admin.chickstage.test")
	assert.False(t, env.server.checkOrigin(req))
}

package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"chickstage-backend-go/internal/services"
)

type contextKey string

const ctxClaims contextKey = "claims"

// accessCookie carries the access token for the server-rendered pages.
const accessCookie = "access_token"

// tokenFromRequest reads a Bearer header first and the access cookie second.
func tokenFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(accessCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func claimsFromRequest(tokens services.TokenService, r *http.Request) (services.Claims, bool) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return services.Claims{}, false
	}
	claims, err := tokens.ParseAccess(raw)
	if err != nil || claims.UserID == "" {
		return services.Claims{}, false
	}
	return claims, true
}

func withClaims(r *http.Request, claims services.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxClaims, claims))
}

func WithAuth(tokenService services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromRequest(tokenService, r)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// OptionalAuth attaches the claims of a valid token and lets anonymous
// requests through.
func OptionalAuth(tokenService services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := claimsFromRequest(tokenService, r); ok {
				r = withClaims(r, claims)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// QueryToken promotes a ?token= parameter to a Bearer header. Browsers cannot
// set headers on a websocket handshake.
func QueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" && r.Header.Get("Authorization") == "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		next.ServeHTTP(w, r)
	})
}

func CurrentClaims(r *http.Request) (services.Claims, bool) {
	claims, ok := r.Context().Value(ctxClaims).(services.Claims)
	return claims, ok
}

func CurrentUserID(r *http.Request) string {
	if claims, ok := CurrentClaims(r); ok {
		return claims.UserID
	}
	return ""
}

func RequireRole(role string) func(http.Handler) http.Handler {
	role = strings.ToUpper(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := CurrentClaims(r); ok && strings.ToUpper(claims.Role) == role {
				next.ServeHTTP(w, r)
				return
			}
			WriteError(w, http.StatusForbidden, "Not allowed")
		})
	}
}

// RequirePageRole guards server-rendered pages: anonymous visitors are sent
// to the sign-in page, signed-in users without the role get a 403 page.
func (s *Server) RequirePageRole(role string) func(http.Handler) http.Handler {
	role = strings.ToUpper(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromRequest(s.Tokens, r)
			if !ok {
				target := "/auth?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			r = withClaims(r, claims)
			if strings.ToUpper(claims.Role) != role {
				s.renderError(w, r, http.StatusForbidden, "You do not have access to this page.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

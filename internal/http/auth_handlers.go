package httpapi

import (
	"net/http"
	"strings"
	"time"

	"chickstage-backend-go/internal/crud"
	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/services"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RegisterResponse struct {
	User models.User `json:"user"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.Accounts.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, RegisterResponse{User: user})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, session)
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Authentication failed")
		return
	}
	session, err := s.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, session)
}

// Logout is stateless: tokens simply expire. The page cookie is cleared for
// browser sessions.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	clearAccessCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authView struct {
	Next  string
	Email string
}

func (s *Server) AuthPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "auth", "Sign In", authView{Next: safeNext(r.URL.Query().Get("next"))}, nil)
}

// AuthLogin signs in from the HTML form and stores the access token in a
// cookie. Admins land on the dashboard, everyone else on the home page.
func (s *Server) AuthLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	email := r.PostForm.Get("email")
	next := safeNext(r.PostForm.Get("next"))
	session, err := s.Accounts.Authenticate(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status, message := services.StatusOf(err)
		s.renderPage(w, r, status, "auth", "Sign In", authView{Next: next, Email: email}, []crud.Toast{errorToast(message)})
		return
	}
	s.setAccessCookie(w, session.AccessToken)
	if next == "" {
		next = "/"
		if session.User.IsAdmin() {
			next = "/admin"
		}
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) AuthRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	in := services.RegisterInput{
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		FullName:        r.PostForm.Get("fullName"),
		Phone:           r.PostForm.Get("phone"),
		FarmLocation:    r.PostForm.Get("farmLocation"),
		FarmSize:        r.PostForm.Get("farmSize"),
		ExperienceLevel: r.PostForm.Get("experienceLevel"),
	}
	if _, err := s.Accounts.Register(r.Context(), in); err != nil {
		status, message := services.StatusOf(err)
		s.renderPage(w, r, status, "auth", "Sign In", authView{}, []crud.Toast{errorToast(message)})
		return
	}
	session, err := s.Accounts.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		status, message := services.StatusOf(err)
		s.renderPage(w, r, status, "auth", "Sign In", authView{Email: in.Email}, []crud.Toast{errorToast(message)})
		return
	}
	s.setAccessCookie(w, session.AccessToken)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) AuthLogout(w http.ResponseWriter, r *http.Request) {
	clearAccessCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.Tokens.AccessTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext only allows local redirect targets.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return ""
	}
	return raw
}

func errorToast(message string) crud.Toast {
	return crud.Toast{Title: "Error", Description: message, Variant: crud.VariantDestructive}
}

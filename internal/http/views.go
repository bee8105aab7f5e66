package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"chickstage-backend-go/internal/crud"
	"chickstage-backend-go/internal/models"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

type navLink struct {
	Label  string
	Href   string
	Active bool
}

var navigation = []navLink{
	{Label: "Home", Href: "/"},
	{Label: "Lifecycle Tracker", Href: "/lifecycle"},
	{Label: "Marketplace", Href: "/marketplace"},
	{Label: "Learning Center", Href: "/learning"},
	{Label: "Farmer Interviews", Href: "/interviews"},
	{Label: "Live Stream", Href: "/livestream"},
}

// page is what every template receives. Data holds the page specific view.
type page struct {
	Title    string
	Brand    string
	Tagline  string
	Nav      []navLink
	SignedIn bool
	IsAdmin  bool
	Email    string
	Toasts   []crud.Toast
	Footer   models.Footer
	Social   []models.Link
	Data     any
}

type views struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"field": func(form crud.FormState, name string) string { return form[name] },
}

// loadViews parses every page template together with the shared layout.
func loadViews() (*views, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	v := &views{pages: map[string]*template.Template{}}
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		t, err := template.New(path.Base(name)).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return v, nil
}

func (v *views) render(w http.ResponseWriter, status int, name string, data page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, toasts []crud.Toast) {
	nav := make([]navLink, len(navigation))
	copy(nav, navigation)
	for i := range nav {
		nav[i].Active = nav[i].Href == r.URL.Path
	}
	p := page{
		Title:   title,
		Brand:   s.Catalog.Brand,
		Tagline: s.Catalog.Tagline,
		Nav:     nav,
		Toasts:  toasts,
		Footer:  s.Catalog.Footer,
		Social:  s.Catalog.Social,
		Data:    data,
	}
	if claims, ok := CurrentClaims(r); ok {
		p.SignedIn = true
		p.IsAdmin = claims.Role == models.RoleAdmin
		p.Email = claims.Email
	}
	if err := s.views.render(w, status, name, p); err != nil {
		s.Log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

type errorView struct {
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.renderPage(w, r, status, "error", http.StatusText(status), errorView{Status: status, Message: message}, nil)
}

package httpapi

import (
	"net/http"
	"strings"

	"chickstage-backend-go/internal/crud"
	"chickstage-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const overviewMetricsLimit = 20

type adminView struct {
	Tabs     []navLink
	Overview *services.Overview
	Manager  *managerView
}

type managerView struct {
	Key         string
	Title       string
	Description string
	Entity      string
	Plural      string
	ReadOnly    bool
	Dialog      string
	DialogOpen  bool
	Editing     bool
	EditingID   string
	Fields      []fieldView
	Table       crud.Table
}

type fieldView struct {
	Name        string
	Label       string
	InputType   string
	Step        string
	Placeholder string
	Value       string
	Required    bool
	LongText    bool
	Enum        bool
	Options     []crud.Option
}

func adminTabs(active string) []navLink {
	tabs := []navLink{{Label: "Overview", Href: "/admin", Active: active == ""}}
	for _, schema := range services.Collections() {
		tabs = append(tabs, navLink{
			Label:  strings.ToUpper(schema.Key[:1]) + schema.Key[1:],
			Href:   "/admin/" + schema.Key,
			Active: schema.Key == active,
		})
	}
	return tabs
}

func (s *Server) newManager(schema crud.Schema) (*crud.Manager, *crud.Toasts) {
	toasts := &crud.Toasts{}
	return crud.NewManager(schema, s.Store, toasts, s.Log), toasts
}

func (s *Server) buildManagerView(m *crud.Manager) *managerView {
	schema := m.Schema()
	form := m.Form()
	view := &managerView{
		Key:         schema.Key,
		Title:       schema.Title,
		Description: schema.Description,
		Entity:      schema.Entity,
		Plural:      schema.Plural,
		ReadOnly:    schema.ReadOnly,
		Dialog:      m.Dialog().String(),
		DialogOpen:  m.Dialog() != crud.DialogClosed,
		Editing:     m.Dialog() == crud.DialogEdit,
		EditingID:   m.EditingID(),
		Table:       crud.BuildTable(schema, m.Items(), s.Now()),
	}
	for _, f := range schema.Fields {
		view.Fields = append(view.Fields, fieldView{
			Name:        f.Name,
			Label:       f.Label,
			InputType:   f.Kind.InputType(),
			Step:        f.Kind.InputStep(),
			Placeholder: f.Placeholder,
			Value:       form[f.Name],
			Required:    f.Required,
			LongText:    f.Kind == crud.KindLongText,
			Enum:        f.Kind == crud.KindEnum,
			Options:     f.Options,
		})
	}
	return view
}

func (s *Server) renderManager(w http.ResponseWriter, r *http.Request, status int, m *crud.Manager, toasts *crud.Toasts) {
	schema := m.Schema()
	view := adminView{Tabs: adminTabs(schema.Key), Manager: s.buildManagerView(m)}
	s.renderPage(w, r, status, "admin", schema.Title, view, toasts.All())
}

// tabSchema resolves the {tab} URL parameter, rendering a 404 page when it
// names no collection.
func (s *Server) tabSchema(w http.ResponseWriter, r *http.Request) (crud.Schema, bool) {
	schema, ok := services.LookupCollection(chi.URLParam(r, "tab"))
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "Page not found.")
		return crud.Schema{}, false
	}
	return schema, true
}

func (s *Server) AdminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := services.BuildOverview(r.Context(), s.Store, s.DB, overviewMetricsLimit)
	toasts := []crud.Toast{}
	if err != nil {
		s.Log.Warn("overview failed", zap.Error(err))
		toasts = append(toasts, crud.Toast{Title: "Error", Description: "Failed to load overview", Variant: crud.VariantDestructive})
		overview = services.Overview{Metrics: []services.MetricSample{}}
	}
	view := adminView{Tabs: adminTabs(""), Overview: &overview}
	s.renderPage(w, r, http.StatusOK, "admin", "Admin Dashboard", view, toasts)
}

func (s *Server) AdminTab(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.tabSchema(w, r)
	if !ok {
		return
	}
	m, toasts := s.newManager(schema)
	_ = m.List(r.Context())
	s.renderManager(w, r, http.StatusOK, m, toasts)
}

func (s *Server) AdminNew(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.tabSchema(w, r)
	if !ok {
		return
	}
	if schema.ReadOnly {
		s.renderError(w, r, http.StatusMethodNotAllowed, schema.Title+" are read-only.")
		return
	}
	m, toasts := s.newManager(schema)
	_ = m.List(r.Context())
	m.OpenCreate()
	s.renderManager(w, r, http.StatusOK, m, toasts)
}

func (s *Server) AdminEdit(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.tabSchema(w, r)
	if !ok {
		return
	}
	if schema.ReadOnly {
		s.renderError(w, r, http.StatusMethodNotAllowed, schema.Title+" are read-only.")
		return
	}
	m, toasts := s.newManager(schema)
	if err := m.List(r.Context()); err != nil {
		s.renderManager(w, r, http.StatusOK, m, toasts)
		return
	}
	rec, found := m.Find(chi.URLParam(r, "id"))
	if !found {
		s.renderError(w, r, http.StatusNotFound, schema.Entity+" not found.")
		return
	}
	_ = m.Edit(rec)
	s.renderManager(w, r, http.StatusOK, m, toasts)
}

// AdminSubmit creates a record, or updates the one named by editing_id. The
// tab is rendered again with the outcome; a failed submit keeps the dialog
// open with what was typed.
func (s *Server) AdminSubmit(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.tabSchema(w, r)
	if !ok {
		return
	}
	if schema.ReadOnly {
		s.renderError(w, r, http.StatusMethodNotAllowed, schema.Title+" are read-only.")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	m, toasts := s.newManager(schema)
	_ = m.List(r.Context())
	if id := strings.TrimSpace(r.PostForm.Get("editing_id")); id != "" {
		_ = m.EditByID(id)
	} else {
		m.OpenCreate()
	}
	m.SetForm(formFromValues(schema, r.PostForm))
	_ = m.Submit(r.Context())
	s.renderManager(w, r, http.StatusOK, m, toasts)
}

func (s *Server) AdminDelete(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.tabSchema(w, r)
	if !ok {
		return
	}
	if schema.ReadOnly {
		s.renderError(w, r, http.StatusMethodNotAllowed, schema.Title+" are read-only.")
		return
	}
	m, toasts := s.newManager(schema)
	_ = m.List(r.Context())
	_ = m.Delete(r.Context(), chi.URLParam(r, "id"))
	s.renderManager(w, r, http.StatusOK, m, toasts)
}

// formFromValues keeps the posted inputs the schema declares.
func formFromValues(schema crud.Schema, values map[string][]string) crud.FormState {
	form := crud.FormState{}
	for _, f := range schema.Fields {
		if v, ok := values[f.Name]; ok && len(v) > 0 {
			form[f.Name] = v[0]
		}
	}
	return form
}

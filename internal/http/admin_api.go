package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"chickstage-backend-go/internal/crud"
	"chickstage-backend-go/internal/records"
	"chickstage-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CollectionResponse struct {
	Items   []records.Record `json:"items"`
	Toasts  []crud.Toast     `json:"toasts"`
	Message string           `json:"message,omitempty"`
}

type MetricsHistoryResponse struct {
	Items []services.MetricSample `json:"items"`
}

func (s *Server) apiSchema(w http.ResponseWriter, r *http.Request) (crud.Schema, bool) {
	schema, ok := services.LookupCollection(chi.URLParam(r, "collection"))
	if !ok {
		WriteError(w, http.StatusNotFound, "Collection not found")
		return crud.Schema{}, false
	}
	return schema, true
}

func (s *Server) apiMutableSchema(w http.ResponseWriter, r *http.Request) (crud.Schema, bool) {
	schema, ok := s.apiSchema(w, r)
	if !ok {
		return crud.Schema{}, false
	}
	if schema.ReadOnly {
		w.Header().Set("Allow", http.MethodGet)
		WriteError(w, http.StatusMethodNotAllowed, schema.Title+" are read-only")
		return crud.Schema{}, false
	}
	return schema, true
}

func writeCollection(w http.ResponseWriter, status int, m *crud.Manager, toasts *crud.Toasts, message string) {
	WriteJSON(w, status, CollectionResponse{Items: m.Items(), Toasts: toasts.All(), Message: message})
}

// mutationStatus maps a manager error to the API status: 422 for missing
// required fields, 404 for a vanished record, 502 for a failing backend.
func mutationStatus(err error) (int, string) {
	switch {
	case errors.Is(err, crud.ErrIncomplete):
		return http.StatusUnprocessableEntity, "Required field missing"
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound, "Record not found"
	default:
		return http.StatusBadGateway, "Record store request failed"
	}
}

func (s *Server) ListCollection(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.apiSchema(w, r)
	if !ok {
		return
	}
	m, toasts := s.newManager(schema)
	if err := m.List(r.Context()); err != nil {
		writeCollection(w, http.StatusBadGateway, m, toasts, "Record store request failed")
		return
	}
	writeCollection(w, http.StatusOK, m, toasts, "")
}

func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.apiMutableSchema(w, r)
	if !ok {
		return
	}
	var payload map[string]any
	if err := decodeJSON(w, r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, toasts := s.newManager(schema)
	if err := m.List(r.Context()); err != nil {
		writeCollection(w, http.StatusBadGateway, m, toasts, "Record store request failed")
		return
	}
	m.OpenCreate()
	m.SetForm(formFromJSON(schema, payload))
	if err := m.Submit(r.Context()); err != nil {
		status, message := mutationStatus(err)
		writeCollection(w, status, m, toasts, message)
		return
	}
	writeCollection(w, http.StatusCreated, m, toasts, "")
}

// UpdateRecord starts from the stored record so fields missing from the
// payload keep their current values.
func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.apiMutableSchema(w, r)
	if !ok {
		return
	}
	var payload map[string]any
	if err := decodeJSON(w, r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, toasts := s.newManager(schema)
	if err := m.List(r.Context()); err != nil {
		writeCollection(w, http.StatusBadGateway, m, toasts, "Record store request failed")
		return
	}
	_ = m.EditByID(chi.URLParam(r, "id"))
	m.SetForm(formFromJSON(schema, payload))
	if err := m.Submit(r.Context()); err != nil {
		status, message := mutationStatus(err)
		writeCollection(w, status, m, toasts, message)
		return
	}
	writeCollection(w, http.StatusOK, m, toasts, "")
}

func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.apiMutableSchema(w, r)
	if !ok {
		return
	}
	m, toasts := s.newManager(schema)
	if err := m.List(r.Context()); err != nil {
		writeCollection(w, http.StatusBadGateway, m, toasts, "Record store request failed")
		return
	}
	if err := m.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeCollection(w, http.StatusBadGateway, m, toasts, "Record store request failed")
		return
	}
	writeCollection(w, http.StatusOK, m, toasts, "")
}

func (s *Server) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := services.BuildOverview(r.Context(), s.Store, s.DB, overviewMetricsLimit)
	if err != nil {
		s.Log.Warn("overview failed", zap.Error(err))
		WriteError(w, http.StatusBadGateway, "Record store request failed")
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	if s.DB == nil {
		WriteJSON(w, http.StatusOK, MetricsHistoryResponse{Items: []services.MetricSample{}})
		return
	}
	items, err := services.LatestMetrics(r.Context(), s.DB, limit)
	if err != nil {
		s.Log.Error("metrics history failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, MetricsHistoryResponse{Items: items})
}

// formFromJSON turns a JSON object into form input text. Keys the schema does
// not declare are dropped; null clears a field.
func formFromJSON(schema crud.Schema, payload map[string]any) crud.FormState {
	form := crud.FormState{}
	for _, f := range schema.Fields {
		raw, ok := payload[f.Name]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case nil:
			form[f.Name] = ""
		case string:
			form[f.Name] = v
		case float64:
			form[f.Name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			form[f.Name] = strconv.FormatBool(v)
		}
	}
	return form
}

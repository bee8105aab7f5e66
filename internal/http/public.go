package httpapi

import (
	"net/http"
	"strings"

	"chickstage-backend-go/internal/content"
	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/services"

	"go.uber.org/zap"
)

type homeView struct {
	Hero     content.Hero
	Features []models.Feature
}

type lifecycleView struct {
	Batches  []models.Batch
	Batch    models.Batch
	HasBatch bool
	Stages   []models.Stage
	Updates  []models.BatchUpdate
}

type marketplaceView struct {
	Search     string
	Category   string
	Categories []models.Category
	Products   []models.Product
}

type learningView struct {
	Courses []models.Course
}

type interviewsView struct {
	Featured *models.Interview
	Regular  []models.Interview
}

type livestreamView struct {
	Live     models.LiveStats
	Chat     []models.ChatMessage
	Upcoming []models.UpcomingStream
}

type ProductsResponse struct {
	Items      []models.Product  `json:"items"`
	Categories []models.Category `json:"categories"`
}

type VisitRequest struct {
	Path     *string `json:"path"`
	Referrer *string `json:"referrer"`
}

type VisitCountResponse struct {
	Total int `json:"total"`
}

func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	view := homeView{Hero: s.Catalog.Hero, Features: s.Catalog.Features}
	s.renderPage(w, r, http.StatusOK, "home", "Home", view, nil)
}

func (s *Server) Lifecycle(w http.ResponseWriter, r *http.Request) {
	batch, ok := content.SelectBatch(s.Catalog.Batches, r.URL.Query().Get("batch"))
	view := lifecycleView{
		Batches:  s.Catalog.Batches,
		Batch:    batch,
		HasBatch: ok,
		Stages:   s.Catalog.Stages,
		Updates:  s.Catalog.Updates,
	}
	s.renderPage(w, r, http.StatusOK, "lifecycle", "Lifecycle Tracker", view, nil)
}

// marketplaceQuery reads ?q= and ?category=. The search text is used as typed.
// Unknown categories fall back to every product.
func (s *Server) marketplaceQuery(r *http.Request) (string, string) {
	search := r.URL.Query().Get("q")
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" || !s.Catalog.ValidCategory(category) {
		category = content.AllCategories
	}
	return search, category
}

func (s *Server) Marketplace(w http.ResponseWriter, r *http.Request) {
	search, category := s.marketplaceQuery(r)
	view := marketplaceView{
		Search:     search,
		Category:   category,
		Categories: s.Catalog.Categories,
		Products:   content.FilterProducts(s.Catalog.Products, search, category),
	}
	s.renderPage(w, r, http.StatusOK, "marketplace", "Marketplace", view, nil)
}

func (s *Server) Learning(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "learning", "Learning Center", learningView{Courses: s.Catalog.Courses}, nil)
}

func (s *Server) Interviews(w http.ResponseWriter, r *http.Request) {
	featured, regular := content.SplitFeatured(s.Catalog.Interviews)
	s.renderPage(w, r, http.StatusOK, "interviews", "Farmer Interviews", interviewsView{Featured: featured, Regular: regular}, nil)
}

func (s *Server) Livestream(w http.ResponseWriter, r *http.Request) {
	view := livestreamView{Live: s.Catalog.Live, Chat: s.Catalog.Chat, Upcoming: s.Catalog.Upcoming}
	s.renderPage(w, r, http.StatusOK, "livestream", "Live Stream", view, nil)
}

func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.renderError(w, r, http.StatusNotFound, "Page not found.")
}

func (s *Server) PublicProducts(w http.ResponseWriter, r *http.Request) {
	search, category := s.marketplaceQuery(r)
	WriteJSON(w, http.StatusOK, ProductsResponse{
		Items:      content.FilterProducts(s.Catalog.Products, search, category),
		Categories: s.Catalog.Categories,
	})
}

func (s *Server) TrackVisit(w http.ResponseWriter, r *http.Request) {
	var req VisitRequest
	_ = decodeJSON(w, r, &req)
	if s.DB != nil {
		visit := services.NewVisit(resolveClientIP(r), r.UserAgent(), ptrToString(req.Path), ptrToString(req.Referrer))
		if err := services.RecordVisit(r.Context(), s.DB, visit); err != nil {
			s.Log.Warn("record visit failed", zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) VisitCount(w http.ResponseWriter, r *http.Request) {
	total := 0
	if s.DB != nil {
		var err error
		if total, err = services.CountVisits(r.Context(), s.DB); err != nil {
			s.Log.Warn("count visits failed", zap.Error(err))
		}
	}
	WriteJSON(w, http.StatusOK, VisitCountResponse{Total: total})
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

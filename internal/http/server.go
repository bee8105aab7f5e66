package httpapi

import (
	"net/http"
	"time"

	"chickstage-backend-go/internal/config"
	"chickstage-backend-go/internal/content"
	"chickstage-backend-go/internal/models"
	"chickstage-backend-go/internal/records"
	"chickstage-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Server wires the public pages, the admin dashboard and the JSON API. DB may
// be nil, in which case visits and metric history are skipped.
type Server struct {
	DB         *sqlx.DB
	Store      records.Store
	Config     config.Config
	Tokens     services.TokenService
	Accounts   *services.Accounts
	Catalog    *content.Catalog
	MetricsHub *services.MetricsHub
	Log        *zap.Logger
	Now        func() time.Time

	views *views
}

func NewTokenService(cfg config.Config) services.TokenService {
	return services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	}
}

func NewServer(db *sqlx.DB, store records.Store, cfg config.Config, catalog *content.Catalog, hub *services.MetricsHub, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hub == nil {
		hub = services.NewMetricsHub(logger)
	}
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	tokens := NewTokenService(cfg)
	return &Server{
		DB:         db,
		Store:      store,
		Config:     cfg,
		Tokens:     tokens,
		Accounts:   services.NewAccounts(db, store, tokens, logger),
		Catalog:    catalog,
		MetricsHub: hub,
		Log:        logger,
		Now:        time.Now,
		views:      v,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.Log))
	r.Use(middleware.Recoverer)
	r.Use(OptionalAuth(s.Tokens))
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	r.NotFound(s.NotFound)

	r.Group(func(pages chi.Router) {
		pages.Use(TrackVisits(s.DB, s.Log))
		pages.Get("/", s.Home)
		pages.Get("/lifecycle", s.Lifecycle)
		pages.Get("/marketplace", s.Marketplace)
		pages.Get("/learning", s.Learning)
		pages.Get("/interviews", s.Interviews)
		pages.Get("/livestream", s.Livestream)
	})

	r.Get("/auth", s.AuthPage)
	r.Post("/auth/login", s.AuthLogin)
	r.Post("/auth/register", s.AuthRegister)
	r.Post("/auth/logout", s.AuthLogout)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(s.RequirePageRole(models.RoleAdmin))
		admin.Get("/", s.AdminOverview)
		admin.Get("/{tab}", s.AdminTab)
		admin.Post("/{tab}", s.AdminSubmit)
		admin.Get("/{tab}/new", s.AdminNew)
		admin.Get("/{tab}/{id}/edit", s.AdminEdit)
		admin.Post("/{tab}/{id}/delete", s.AdminDelete)
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.With(WithAuth(s.Tokens)).Get("/me", s.Me)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole(models.RoleAdmin))
			admin.Get("/overview", s.Overview)
			admin.Get("/metrics/history", s.MetricsHistory)
			admin.Get("/{collection}", s.ListCollection)
			admin.Post("/{collection}", s.CreateRecord)
			admin.Put("/{collection}/{id}", s.UpdateRecord)
			admin.Delete("/{collection}/{id}", s.DeleteRecord)
		})

		api.Route("/public", func(pub chi.Router) {
			pub.Get("/products", s.PublicProducts)
			pub.Post("/visits", s.TrackVisit)
			pub.Get("/visits/count", s.VisitCount)
		})
	})

	r.With(QueryToken, WithAuth(s.Tokens), RequireRole(models.RoleAdmin)).Get("/ws/metrics", s.MetricsSocket)
	return r
}

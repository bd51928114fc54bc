package api

import (
	"net/http"

	"github.com/airx/beds/server/hub/api/middleware"
	"github.com/airx/beds/server/hub/api/resources"
	"github.com/airx/beds/server/hub/internal/monitoring"
	"github.com/airx/beds/server/hub/internal/service"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

// RouterConfig carries the settings the routes depend on.
type RouterConfig struct {
	IngestKey string
	Monitor   *monitoring.Service
}

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
	config    RouterConfig
}

func NewRouter(svc *service.Service, cfg RouterConfig) *Router {
	if cfg.Monitor == nil {
		cfg.Monitor = svc.Monitor
	}
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(svc.Tokens, svc),
		resources: resources.NewResources(svc),
		config:    cfg,
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.router.Use(r.instrument)
	r.router.Handle(r.config.Monitor.MetricsPath(), r.config.Monitor.Handler()).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.Health.Health).Methods(http.MethodGet)
	api.HandleFunc("/docs/swagger.json", r.resources.Health.SwaggerDoc).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", r.resources.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/public/sites", r.resources.Sites.PublicSites).Methods(http.MethodGet)

	// Sensor gateways
	ingest := api.PathPrefix("/sensors").Subrouter()
	ingest.Use(middleware.RequireIngestKey(r.config.IngestKey))
	ingest.HandleFunc("/ingest", r.resources.Sensors.Ingest).Methods(http.MethodPost)

	// Protected routes, scoped to the caller's sites
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	sites := protected.PathPrefix("/sites").Subrouter()
	sites.HandleFunc("", r.resources.Sites.ListSites).Methods(http.MethodGet)
	sites.Handle("", admin(r.resources.Sites.CreateSite)).Methods(http.MethodPost)
	sites.Handle("/{id}", admin(r.resources.Sites.UpdateSite)).Methods(http.MethodPut, http.MethodPatch)
	sites.Handle("/{id}", admin(r.resources.Sites.DeleteSite)).Methods(http.MethodDelete)
	sites.HandleFunc("/{id}/status", r.resources.Sites.GetSiteStatus).Methods(http.MethodGet)
	sites.Handle("/{id}/status", admin(r.resources.Sites.PatchSiteStatus)).Methods(http.MethodPatch)
	sites.HandleFunc("/{id}/sensors", r.resources.Sensors.ListSiteSensors).Methods(http.MethodGet)
	sites.HandleFunc("/{id}/measurements", r.resources.Sensors.ListSiteMeasurements).Methods(http.MethodGet)

	// Admin only
	users := protected.PathPrefix("/users").Subrouter()
	users.Use(middleware.RequireAdmin)
	users.HandleFunc("", r.resources.Users.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("", r.resources.Users.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("/{id}", r.resources.Users.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc("/{id}/sites", r.resources.Users.UpdateUserSites).Methods(http.MethodPut)
}

// instrument counts requests per route template.
func (r *Router) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		route := "unmatched"
		if current := mux.CurrentRoute(req); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m := httpsnoop.CaptureMetrics(next, w, req)
		r.config.Monitor.RecordRequest(route, m.Code)
	})
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

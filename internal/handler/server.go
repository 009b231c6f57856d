// Package handler implements the HTTP handlers for the name statistics API.
// All handlers are methods on Server and are mounted by NewRouter. Methods
// are split into files by resource (health.go, names.go, chart.go, …) but
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/openapi"
)

// NameServicer defines the read operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type NameServicer interface {
	Search(ctx context.Context, query string) ([]domain.NameMatch, error)
	Series(ctx context.Context, name string) ([]domain.SeriesPoint, error)
	SeriesMultiple(ctx context.Context, names []string) ([]domain.NameRecord, error)
	Chart(ctx context.Context, names []string, zeroFill bool) (domain.Chart, error)
	Discover(ctx context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error)
}

// Pinger reports whether the name store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	names NameServicer
	db    Pinger
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger means slog.Default().
func NewServer(names NameServicer, db Pinger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{names: names, db: db, log: log}
}

// NewRouter returns the routes of the API. Cross-cutting middleware is
// added by the caller.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/names/search", s.SearchNames)
		r.Get("/names/{name}/series", s.GetSeries)
		r.Get("/series", s.GetSeriesMultiple)
		r.Get("/chart", s.GetChart)
		r.Get("/discover", s.Discover)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "no route for "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", r.Method+" is not allowed"))
	})
	return r
}

// serveOpenAPI handles GET /openapi.yaml.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Document)
}

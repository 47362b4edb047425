// Package api exposes the operator dashboard: a small REST surface over the
// security event log and the privacy export/delete operations. It is a
// diagnostic tool for operators, not part of the library boundary consumed
// by application code.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/mhollis/wardkeep/guard"
)

//go:embed openapi.yaml
var openapiSpec []byte

// API holds the dependencies needed by the dashboard handlers.
type API struct {
	guard  *guard.Guard
	logger *slog.Logger
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) { a.logger = logger }
}

// New creates a dashboard API over the given guard.
func New(g *guard.Guard, opts ...Option) *API {
	a := &API{guard: g}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return a
}

// Router returns a chi.Router with all dashboard routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(SecurityHeaders)
	r.Use(a.Recoverer)
	r.Use(a.RequestLogger)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/openapi.yaml",
		Path:    "redoc",
	}, nil))

	r.Get("/healthz", a.Health)
	r.Get("/events", a.ListEvents)
	r.Delete("/events", a.ClearEvents)
	r.Get("/export", a.ExportData)
	r.Delete("/data", a.DeleteData)

	return r
}

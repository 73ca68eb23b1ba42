// Package http provides the HTTP delivery layer of the service: the chi router,
// request decoding and validation, and the mapping of use case results and
// errors onto JSON responses.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/url-popularity/pkg/middleware/recoverer"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	defaultPopularLimit = 10
	defaultMaxLimit     = 100
	defaultDocsPath     = "./docs/swagger.yml"
)

// Config holds what the router needs beyond the use case.
type Config struct {
	BaseURL             string       // BaseURL prefixes short keys in short_url.
	DefaultPopularLimit int          // DefaultPopularLimit is used when the limit query parameter is absent.
	MaxPopularLimit     int          // MaxPopularLimit is the largest accepted limit.
	Metrics             http.Handler // Metrics is mounted at /metrics when not nil.
	DocsPath            string       // DocsPath is the swagger.yml served at /docs/swagger.yml.
}

func (c *Config) setDefaults() {
	if c.DefaultPopularLimit <= 0 {
		c.DefaultPopularLimit = defaultPopularLimit
	}
	if c.MaxPopularLimit <= 0 {
		c.MaxPopularLimit = defaultMaxLimit
	}
	if c.DocsPath == "" {
		c.DocsPath = defaultDocsPath
	}
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the API.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, cfg Config) *chi.Mux {
	cfg.setDefaults()

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.DocsPath)
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	validate := validator.New()
	h := newURLHandler(urlUseCase, validate, cfg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Route("/shorten", func(r chi.Router) {
			r.Post("/", h.shortenURL)

			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", h.resolveShortKey)
				r.Get("/stats", h.getURLStats)
			})
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/total", h.totalUniqueRequests)
			r.Get("/popular", h.mostPopularURLs)
		})
	})

	r.Get("/{key}", h.redirect)

	return r
}

// Package api serves the pricing engine over HTTP.
// Handlers only decode requests, call the engine and encode results;
// no pricing rule lives here.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"billboard-pricing/adapters/archive"
	"billboard-pricing/adapters/storage"
	"billboard-pricing/core/catalog"
	"billboard-pricing/core/output"
	"billboard-pricing/core/quote"
	"billboard-pricing/internal/config"
	"billboard-pricing/internal/logging"
)

// maxCatalogBytes bounds catalog upload bodies
const maxCatalogBytes = 8 << 20

// Server is the API server
type Server struct {
	cfg     *config.Config
	holder  *catalog.Holder
	store   storage.Store
	archive archive.Archive
	formats *output.Registry
	version string
	logger  *zap.Logger
	router  chi.Router
	http    *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithStore persists catalog uploads to s
func WithStore(s storage.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithArchive keeps generated quotes in a
func WithArchive(a archive.Archive) Option {
	return func(srv *Server) { srv.archive = a }
}

// WithVersion sets the reported build version
func WithVersion(v string) Option {
	return func(srv *Server) { srv.version = v }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// NewServer creates an API server over the catalogs in holder. Without a
// store, catalog uploads only replace the in-memory snapshot.
func NewServer(cfg *config.Config, holder *catalog.Holder, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		holder:  holder,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrGlobal(s.logger)
	if s.archive == nil {
		s.archive = archive.NewMemoryArchive(nil)
	}
	s.formats = output.NewRegistry(output.Options{
		CompanyName: cfg.Output.CompanyName,
		FontPath:    cfg.Output.PDFFontPath,
		Logger:      s.logger,
	})

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", internalTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/zones/resolve", s.handleResolveZone)
		r.Post("/prices", s.handlePrice)
		r.Post("/installation-prices", s.handleInstallationPrice)
		r.Post("/estimates", s.handleEstimate)
		r.Get("/packages", s.handlePackages)

		r.Post("/quotes", s.handleCreateQuote)
		r.Get("/quotes/{id}", s.handleGetQuote)
		r.Get("/quotes/{id}/pdf", s.handleQuotePDF)

		r.Get("/catalog", s.handleGetCatalog)
		r.Get("/installation-catalog", s.handleGetInstallationCatalog)

		r.Group(func(r chi.Router) {
			r.Use(internalAuth(s.cfg.Server.InternalToken))

			r.Put("/catalog", s.handlePutCatalog)
			r.Put("/installation-catalog", s.handlePutInstallationCatalog)
		})
	})

	s.router = r
}

// aggregator prices against the catalogs current at call time
func (s *Server) aggregator() *quote.Aggregator {
	return quote.NewAggregator(s.holder.Pricing(), s.holder.Installation(),
		quote.WithDefaultTier(s.cfg.Pricing.DefaultTier),
		quote.WithValidityDays(s.cfg.Pricing.QuoteValidityDays),
		quote.WithTaxPercent(s.cfg.Pricing.TaxPercent),
		quote.WithLogger(s.logger),
	)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and blocks until it stops
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

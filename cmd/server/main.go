package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/liamcoop/neurocds/decision"
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/internal/config"
	"github.com/liamcoop/neurocds/internal/logger"
	"github.com/liamcoop/neurocds/multicatalog"
	"github.com/liamcoop/neurocds/rules"
)

const (
	maxBodyBytes         = 1 << 20
	slowRequestThreshold = time.Second
)

type Server struct {
	db      *sql.DB
	manager *multicatalog.Manager
	config  *config.Config
	router  *chi.Mux
}

// NewServer builds the catalog manager and routes. db may be nil, in which
// case custom catalogs live in memory only.
func NewServer(cfg *config.Config, db *sql.DB) (*Server, error) {
	mc := multicatalog.Config{ProgramCacheSize: cfg.ProgramCacheSize}
	if db != nil {
		mc.Store = rules.NewPostgresCatalogStore(db)
	}

	manager, err := multicatalog.NewManager(mc, decision.WithFeatureConfig(cfg.FeatureConfig()))
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog manager: %w", err)
	}

	if err := manager.LoadAll(); err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}

	if _, err := manager.Get(cfg.DefaultCatalog); err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}

	s := &Server{
		db:      db,
		manager: manager,
		config:  cfg,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/metrics", s.handleMetrics)
	r.Get("/api/v1/features/schema", s.handleFeatureSchema)

	r.Post("/api/v1/compute", s.handleCompute)

	r.Route("/api/v1/catalogs", func(r chi.Router) {
		r.Get("/", s.handleListCatalogs)
		r.Post("/", s.handleCreateCatalog)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetCatalog)
			r.Put("/", s.handleUpdateCatalog)
			r.Delete("/", s.handleDeleteCatalog)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger counts error responses and slow requests, and logs each
// request at debug level
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		switch {
		case status >= 500:
			logger.ErrorHttp5xx()
		case status >= 400:
			logger.WarnHttp4xx(status)
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"requestId", middleware.GetReqID(r.Context()),
		}
		if elapsed > slowRequestThreshold {
			logger.WarnSlowRequest()
			logger.Warn("slow request", attrs...)
			return
		}
		logger.Debug("request", attrs...)
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		CatalogsLoaded: len(s.manager.List()),
		Storage:        "memory",
	}

	if s.db != nil {
		resp.Storage = "postgres"
		if err := s.db.PingContext(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MetricsResponse{
		Counters:       logger.Snapshot(),
		CachedPrograms: s.manager.CachedPrograms(),
	})
}

func (s *Server) handleFeatureSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, FeatureSchemaResponse{Features: features.Schema()})
}

// Compute handler. Snapshot content is never rejected: an empty body or a
// value of the wrong type is read as missing data. Only a body that is not
// JSON at all gets a 400.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	var typeErr *json.UnmarshalTypeError

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) && !errors.As(err, &typeErr) {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	name := req.Catalog
	if name == "" {
		name = s.config.DefaultCatalog
	}

	engine, err := s.manager.Get(name)
	if err != nil {
		respondError(w, statusFor(err), "catalog not found", err)
		return
	}

	result := engine.Compute(req.Snapshot)
	logger.TotalComputations.Add(1)

	respondJSON(w, http.StatusOK, ComputeResponse{
		RequestID: uuid.NewString(),
		Catalog:   name,
		Result:    result,
	})
}

func (s *Server) handleListCatalogs(w http.ResponseWriter, r *http.Request) {
	loaded := s.manager.List()

	catalogs := make([]CatalogSummary, 0, len(loaded))
	for _, ce := range loaded {
		catalogs = append(catalogs, summarize(ce))
	}

	respondJSON(w, http.StatusOK, CatalogsListResponse{Catalogs: catalogs})
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	engine, err := s.manager.Get(name)
	if err != nil {
		respondError(w, statusFor(err), "catalog not found", err)
		return
	}

	respondJSON(w, http.StatusOK, engine.Catalog())
}

func (s *Server) handleCreateCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCatalog(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid catalog definition", err)
		return
	}

	sc, err := s.manager.Create(c)
	if err != nil {
		respondError(w, statusFor(err), "failed to create catalog", err)
		return
	}

	respondJSON(w, http.StatusCreated, storedResponse(sc))
}

// Update catalog handler. The body may omit the name; if present it must
// match the URL.
func (s *Server) handleUpdateCatalog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	c, err := decodeCatalog(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid catalog definition", err)
		return
	}

	if c.Name == "" {
		c.Name = name
	}
	if c.Name != name {
		respondError(w, http.StatusBadRequest, "catalog name does not match URL", nil)
		return
	}

	sc, err := s.manager.Update(c)
	if err != nil {
		respondError(w, statusFor(err), "failed to update catalog", err)
		return
	}

	respondJSON(w, http.StatusOK, storedResponse(sc))
}

func (s *Server) handleDeleteCatalog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.manager.Delete(name); err != nil {
		respondError(w, statusFor(err), "failed to delete catalog", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeCatalog(w http.ResponseWriter, r *http.Request) (*rules.Catalog, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return rules.ParseCatalogJSON(data)
}

// statusFor maps manager and store errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, rules.ErrCatalogNotFound):
		return http.StatusNotFound
	case errors.Is(err, rules.ErrCatalogExists):
		return http.StatusConflict
	case errors.Is(err, multicatalog.ErrBuiltinCatalog):
		return http.StatusForbidden
	case errors.Is(err, multicatalog.ErrInvalidCatalog):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	if status >= 500 {
		logger.Error(message, "error", err)
	}
	respondJSON(w, status, response)
}

func openDatabase(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func main() {
	cfg := config.Load()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = openDatabase(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database unavailable", "error", err)
		}
		defer db.Close()
	} else {
		logger.Warn("DATABASE_URL not set, custom catalogs will not persist")
	}

	server, err := NewServer(cfg, db)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "defaultCatalog", cfg.DefaultCatalog)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logger shutdown error: %v\n", err)
	}

	logger.Info("server stopped")
}

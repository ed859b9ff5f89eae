package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/internal/ai"
	"github.com/testforge-hq/testforge/internal/config"
	"github.com/testforge-hq/testforge/internal/db"
	"github.com/testforge-hq/testforge/internal/emitter"
	"github.com/testforge-hq/testforge/internal/enhance"
	"github.com/testforge-hq/testforge/internal/fetch"
	"github.com/testforge-hq/testforge/internal/generator"
	"github.com/testforge-hq/testforge/internal/jobs"
	forgenats "github.com/testforge-hq/testforge/internal/nats"
)

// validate is shared by all request handlers.
var validate = validator.New()

// Server is the HTTP API: synchronous analysis and generation, plus
// the persisted source/run/job surface when storage is configured.
type Server struct {
	cfg    *config.Config
	router *chi.Mux

	store    *db.Store
	database *db.DB
	nats     *forgenats.Client
	jobRepo  *jobs.Repository
	pipeline *jobs.Pipeline

	fetcher  *fetch.Client
	gen      *generator.Generator
	enhancer *enhance.Pipeline
	emitters *emitter.Registry
}

// ServerConfig carries the dependencies a server runs with. DB and
// NATS are optional: without them the synchronous endpoints still work
// and the persisted surface responds 503.
type ServerConfig struct {
	Config    *config.Config
	DB        *db.DB
	Store     *db.Store
	NATS      *forgenats.Client
	Suggester ai.Suggester
}

// NewServer creates a new API server
func NewServer(sc ServerConfig) (*Server, error) {
	var timeout time.Duration
	retryMax := fetch.DefaultRetryMax
	if sc.Config != nil {
		timeout = sc.Config.FetchTimeout()
		retryMax = sc.Config.FetchRetryMax
	}

	s := &Server{
		cfg:      sc.Config,
		router:   chi.NewRouter(),
		database: sc.DB,
		store:    sc.Store,
		nats:     sc.NATS,
		fetcher:  fetch.NewClient(timeout, retryMax),
		gen:      generator.New(),
		enhancer: enhance.NewPipeline(sc.Suggester),
		emitters: emitter.NewRegistry(),
	}

	if sc.DB != nil {
		if s.store == nil {
			s.store = db.NewStore(sc.DB)
		}
		s.jobRepo = jobs.NewRepository(sc.DB.Pool())
		s.pipeline = jobs.NewPipeline(s.jobRepo, sc.NATS)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// requestLogger emits one structured line per request in place of
// chi's plain-text logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ready", s.readyCheck)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Synchronous analysis and generation
		r.Post("/analyze", s.analyzeSource)
		r.Post("/generate", s.generateSuite)

		// Output formats
		r.Get("/emitters", s.listEmitters)

		// Sources
		r.Route("/sources", func(r chi.Router) {
			r.Post("/", s.createSource)
			r.Get("/", s.listSources)
			r.Get("/{sourceID}", s.getSource)
			r.Delete("/{sourceID}", s.deleteSource)
			r.Post("/{sourceID}/runs", s.startRun)
			r.Get("/{sourceID}/runs", s.listSourceRuns)
			r.Get("/{sourceID}/suites", s.listSourceSuites)
		})

		// Pipeline runs
		r.Route("/runs", func(r chi.Router) {
			r.Get("/{runID}", s.getRun)
			r.Get("/{runID}/suite", s.getRunSuite)
			r.Get("/{runID}/export/{emitter}", s.exportRunSuite)
		})

		// Jobs
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.listJobs)
			r.Get("/{jobID}", s.getJob)
			r.Post("/{jobID}/retry", s.retryJob)
			r.Post("/{jobID}/cancel", s.cancelJob)
		})
	})
}

// Health check handlers
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) readyCheck(w http.ResponseWriter, r *http.Request) {
	if s.database != nil {
		if err := s.database.HealthCheck(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.nats != nil {
		if err := s.nats.HealthCheck(); err != nil {
			respondError(w, http.StatusServiceUnavailable, "nats unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// respondJSON writes data as a JSON response. Nil data writes the
// status line only.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes a JSON error body.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

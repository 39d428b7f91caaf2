package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mossline/stashtrack/internal/engine"
	"github.com/mossline/stashtrack/internal/store"
	"github.com/mossline/stashtrack/internal/strains"
)

// Server is the stashtrack HTTP API server. It renders engine results as
// JSON; all analytics stay in the engine package.
type Server struct {
	db      *store.DB
	catalog *strains.Catalog
	cfg     engine.Config
	rng     *rand.Rand
	log     zerolog.Logger
	router  chi.Router
	version string
	started time.Time

	defaultLimitMg float64
}

// New creates a Server. catalog may be nil (strain routes return 503).
// rng feeds strain recommendation shuffling; pass a seeded source for
// reproducible output or nil for rating-ordered results.
func New(db *store.DB, catalog *strains.Catalog, cfg engine.Config, rng *rand.Rand, log zerolog.Logger, version string) *Server {
	s := &Server{
		db:      db,
		catalog: catalog,
		cfg:     cfg,
		rng:     rng,
		log:     log,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// SetDefaultDailyLimit sets a fallback daily absorbed-dose cap applied
// to users who have not configured their own. Zero disables it.
func (s *Server) SetDefaultDailyLimit(mg float64) { s.defaultLimitMg = mg }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/consumption", s.handleLogConsumption)
			r.Get("/consumption", s.handleListConsumption)
			r.Get("/consumption/summary", s.handleSummary)

			r.Get("/analytics/trend", s.handleTrend)
			r.Get("/analytics/risk", s.handleRisk)
			r.Get("/analytics/depletion", s.handleDepletion)
			r.Get("/analytics/reorder", s.handleReorder)
			r.Get("/analytics/break", s.handleBreak)
			r.Get("/analytics/dosage", s.handleDoseAdjustment)

			r.Get("/stash", s.handleListStash)
			r.Post("/stash", s.handleAddStash)
			r.Post("/stash/remove", s.handleRemoveStash)

			r.Post("/limit", s.handleSetLimit)
			r.Post("/alerts", s.handleAddAlert)
		})

		r.Get("/strains", s.handleSearchStrains)
		r.Get("/strains/recommend", s.handleRecommendStrains)
		r.Get("/strains/{name}", s.handleGetStrain)
	})

	s.router = r
}

// requestLogger logs each request with method, path, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// userLocation resolves the user's configured timezone, defaulting to UTC.
func (s *Server) userLocation(u *store.User) *time.Location {
	if u == nil || u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Package api provides the HTTP server for NutriBot.
// It exposes the meal diary and the gamification state as a small REST
// surface consumed by the mobile/web UI. Authentication is out of scope:
// the user id comes from a header or query param set by the gateway.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutribot-app/nutribot/internal/app/game"
	"github.com/nutribot-app/nutribot/internal/domain"
	"github.com/nutribot-app/nutribot/internal/infra/images"
	"github.com/nutribot-app/nutribot/internal/infra/sqlite"
)

// defaultUserID is used when the caller sends no user id (single-user
// installs).
const defaultUserID = "local"

// Server is the NutriBot HTTP API server.
type Server struct {
	db             *sqlite.DB
	engine         *game.Engine
	analyzer       domain.MealAnalyzer // nil disables AI analysis
	uploader       *images.Uploader    // nil disables photo upload
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(db *sqlite.DB, engine *game.Engine) *Server {
	return &Server{db: db, engine: engine}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetAnalyzer sets the AI meal analyzer.
func (s *Server) SetAnalyzer(a domain.MealAnalyzer) { s.analyzer = a }

// SetUploader sets the meal photo uploader.
func (s *Server) SetUploader(u *images.Uploader) { s.uploader = u }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := s.db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]string{"status": status})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/logs", s.handleCreateLog)
		r.Get("/logs", s.handleListLogs)
		r.Get("/stats/week", s.handleWeekStats)

		r.Get("/goals", s.handleGetGoals)
		r.Put("/goals", s.handleSaveGoals)

		r.Route("/game", func(r chi.Router) {
			r.Get("/state", s.handleGameState)
			r.Get("/checklist", s.handleChecklist)
			r.Post("/chest", s.handleOpenChest)
			r.Get("/rewards", s.handleRewardHistory)
			r.Get("/achievements", s.handleAchievements)
			r.Get("/notifications", s.handleNotifications)
			r.Post("/notifications/{id}/shown", s.handleNotificationShown)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// userID extracts the caller's user id. Header wins over query param.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("user"); id != "" {
		return id
	}
	return defaultUserID
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"message": msg},
	})
}

package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pontosapp/pontos/internal/handler"
	"github.com/pontosapp/pontos/internal/ledger"
	"github.com/pontosapp/pontos/internal/middleware"
	"github.com/pontosapp/pontos/internal/store"
	ws "github.com/pontosapp/pontos/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	ledger      *ledger.Service
	userH       *handler.UserHandler
	taskH       *handler.TaskHandler
	rewardH     *handler.RewardHandler
	historyH    *handler.HistoryHandler
	settingsH   *handler.SettingsHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserSettingsStore(db)
	taskStore := store.NewTaskStore(db)
	rewardStore := store.NewRewardStore(db)
	settingsStore := store.NewSettingsStore(db)

	ledgerSvc := ledger.NewService(userStore, logger.With("component", "ledger"))

	return &Server{
		db:          db,
		hub:         hub,
		ledger:      ledgerSvc,
		userH:       handler.NewUserHandler(ledgerSvc, userStore, hub, logger.With("component", "user")),
		taskH:       handler.NewTaskHandler(taskStore, ledgerSvc, hub, logger.With("component", "task")),
		rewardH:     handler.NewRewardHandler(rewardStore, ledgerSvc, settingsStore, hub, logger.With("component", "reward")),
		historyH:    handler.NewHistoryHandler(taskStore, rewardStore, settingsStore, logger.With("component", "history")),
		settingsH:   handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Ledger returns the points ledger service for startup loading.
func (s *Server) Ledger() *ledger.Service {
	return s.ledger
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// User settings and points
	mux.HandleFunc("GET /api/user", s.userH.Get)
	mux.HandleFunc("PUT /api/user", s.userH.UpdateProfile)
	mux.HandleFunc("POST /api/user/refresh", s.userH.Refresh)
	mux.HandleFunc("PUT /api/user/points", s.userH.SetPoints)
	mux.HandleFunc("POST /api/user/points/add", s.userH.AddPoints)
	mux.HandleFunc("POST /api/user/points/subtract", s.userH.SubtractPoints)

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)

	// Rewards
	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/rewards", s.rewardH.Create)
	mux.HandleFunc("PUT /api/rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)
	mux.HandleFunc("POST /api/redemptions/{id}/grant", s.rateLimitedHandler(s.rewardH.Grant))

	// History
	mux.HandleFunc("GET /api/history/completions", s.historyH.Completions)
	mux.HandleFunc("GET /api/history/redemptions", s.historyH.Redemptions)

	// Admin PIN
	mux.HandleFunc("GET /api/settings/pin", s.settingsH.PINStatus)
	mux.HandleFunc("PUT /api/settings/pin", s.rateLimitedHandler(s.settingsH.SetPIN))

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.Handle(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimitedHandler throttles PIN-carrying endpoints by client IP.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

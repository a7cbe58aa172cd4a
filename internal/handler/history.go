package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pontosapp/pontos/internal/history"
	"github.com/pontosapp/pontos/internal/store"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

type HistoryHandler struct {
	tasks    *store.TaskStore
	rewards  *store.RewardStore
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewHistoryHandler(ts *store.TaskStore, rs *store.RewardStore, ss *store.SettingsStore, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{tasks: ts, rewards: rs, settings: ss, logger: logger}
}

// limit resolves the row limit: the ?limit query parameter wins, then the
// history_limit setting, then the default.
func (h *HistoryHandler) limit(r *http.Request) int {
	limit := defaultHistoryLimit
	if v, err := h.settings.Get(store.SettingHistoryLimit); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return limit
}

// Completions returns recent task completions grouped by calendar day.
func (h *HistoryHandler) Completions(w http.ResponseWriter, r *http.Request) {
	completions, err := h.tasks.ListRecentCompletions(h.limit(r))
	if err != nil {
		h.logger.Error("failed to list completions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list completions"})
		return
	}

	sections := history.GroupCompletions(completions, time.Now())
	if sections == nil {
		sections = []history.ActivitySection{}
	}
	writeJSON(w, http.StatusOK, sections)
}

// Redemptions returns recent reward redemptions grouped by calendar day.
func (h *HistoryHandler) Redemptions(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.rewards.ListRecentRedemptions(h.limit(r))
	if err != nil {
		h.logger.Error("failed to list redemptions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list redemptions"})
		return
	}

	sections := history.GroupRedemptions(redemptions, time.Now())
	if sections == nil {
		sections = []history.RewardSection{}
	}
	writeJSON(w, http.StatusOK, sections)
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pontosapp/pontos/internal/ledger"
	"github.com/pontosapp/pontos/internal/model"
	"github.com/pontosapp/pontos/internal/store"
	"github.com/pontosapp/pontos/internal/websocket"
)

type UserHandler struct {
	ledger *ledger.Service
	users  *store.UserSettingsStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewUserHandler(svc *ledger.Service, users *store.UserSettingsStore, hub *websocket.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{ledger: svc, users: users, hub: hub, logger: logger}
}

func (h *UserHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// broadcastSettings notifies connected devices of a user_settings change,
// carrying the full row so they can reconcile their mirrors.
func (h *UserHandler) broadcastSettings(settings *model.UserSettings) {
	h.broadcast(websocket.NewMessage("user_settings", "updated", settings.ID, map[string]any{
		"user_settings": settings,
	}))
}

func (h *UserHandler) writeLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidPoints):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotLoaded):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "user settings not loaded"})
	case errors.Is(err, store.ErrInsufficientPoints):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "insufficient points"})
	default:
		h.logger.Error(fallback, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings := h.ledger.Snapshot()
	if settings == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user settings not loaded"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type pointsRequest struct {
	Points int `json:"points"`
}

func (h *UserHandler) SetPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	settings, err := h.ledger.SetPoints(req.Points)
	if err != nil {
		h.writeLedgerError(w, err, "failed to set points")
		return
	}

	h.broadcastSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	settings, err := h.ledger.AddPoints(req.Points)
	if err != nil {
		h.writeLedgerError(w, err, "failed to add points")
		return
	}

	h.broadcastSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) SubtractPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	settings, err := h.ledger.SubtractPoints(req.Points)
	if err != nil {
		h.writeLedgerError(w, err, "failed to subtract points")
		return
	}

	h.broadcastSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}

// Refresh re-reads the user record from the store, replacing the mirror.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Refresh(); err != nil {
		h.writeLedgerError(w, err, "failed to refresh user settings")
		return
	}
	writeJSON(w, http.StatusOK, h.ledger.Snapshot())
}

type profileRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	current := h.ledger.Snapshot()
	if current == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "user settings not loaded"})
		return
	}

	settings, err := h.users.UpdateProfile(current.ID, req.Name, req.AvatarURL)
	if err != nil {
		h.logger.Error("failed to update profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update profile"})
		return
	}

	h.ledger.Apply(settings)
	h.broadcastSettings(settings)
	writeJSON(w, http.StatusOK, settings)
}

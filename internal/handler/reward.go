package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pontosapp/pontos/internal/ledger"
	"github.com/pontosapp/pontos/internal/model"
	"github.com/pontosapp/pontos/internal/store"
	"github.com/pontosapp/pontos/internal/websocket"
)

const defaultRewardIcon = "gift-outline"

type RewardHandler struct {
	rewards  *store.RewardStore
	ledger   *ledger.Service
	settings *store.SettingsStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewRewardHandler(rs *store.RewardStore, svc *ledger.Service, ss *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{rewards: rs, ledger: svc, settings: ss, hub: hub, logger: logger}
}

func (h *RewardHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// List returns the available rewards, cheapest first.
func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.ListAvailable()
	if err != nil {
		h.logger.Error("failed to list rewards", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list rewards"})
		return
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

type rewardRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PointsCost  int     `json:"points_cost"`
	ImageURL    *string `json:"image_url"`
	Icon        string  `json:"icon"`
	Available   bool    `json:"is_available"`
}

func (r *rewardRequest) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "title is required"
	}
	if r.PointsCost <= 0 {
		return "points_cost must be positive"
	}
	if r.Icon == "" {
		r.Icon = defaultRewardIcon
	}
	return ""
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	reward, err := h.rewards.Create(req.Title, req.Description, req.PointsCost, req.ImageURL, req.Icon, req.Available)
	if err != nil {
		h.logger.Error("failed to create reward", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create reward"})
		return
	}

	h.broadcast(websocket.NewMessage("reward", "created", reward.ID, nil))
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.rewards.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get reward"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reward not found"})
		return
	}

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	reward, err := h.rewards.Update(id, req.Title, req.Description, req.PointsCost, req.ImageURL, req.Icon, req.Available)
	if err != nil {
		h.logger.Error("failed to update reward", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update reward"})
		return
	}

	h.broadcast(websocket.NewMessage("reward", "updated", id, nil))
	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.rewards.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "reward not found"})
			return
		}
		h.logger.Error("failed to delete reward", "reward_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete reward"})
		return
	}

	h.broadcast(websocket.NewMessage("reward", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Redeem spends points on a reward: the balance precondition is checked
// against the ledger mirror here, then the store debits and records the
// redemption in one transaction.
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	reward, err := h.rewards.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get reward"})
		return
	}
	if reward == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "reward not found"})
		return
	}
	if !reward.Available {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reward is not available"})
		return
	}

	snapshot := h.ledger.Snapshot()
	if snapshot == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "user settings not loaded"})
		return
	}
	if snapshot.CurrentPoints < reward.PointsCost {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "insufficient points"})
		return
	}

	redemption, settings, err := h.rewards.Redeem(reward.ID, reward.PointsCost)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientPoints) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "insufficient points"})
			return
		}
		h.logger.Error("failed to redeem reward", "reward_id", reward.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to redeem reward"})
		return
	}

	h.ledger.Apply(settings)

	h.broadcast(websocket.NewMessage("reward_redemption", "created", redemption.ID, nil))
	h.broadcast(websocket.NewMessage("user_settings", "updated", settings.ID, map[string]any{
		"user_settings": settings,
	}))

	writeJSON(w, http.StatusCreated, map[string]any{
		"redemption":     redemption,
		"current_points": settings.CurrentPoints,
	})
}

type grantRequest struct {
	PIN string `json:"pin"`
}

// Grant transitions a redemption to CONCEDIDA. It is gated by the admin PIN
// so only whoever hands out the rewards can confirm them.
func (h *RewardHandler) Grant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	hash, err := h.settings.Get(store.SettingAdminPINHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin PIN not configured"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check PIN"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	redemption, err := h.rewards.Grant(id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "redemption not found"})
		case errors.Is(err, store.ErrAlreadyGranted):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "redemption already granted"})
		default:
			h.logger.Error("failed to grant redemption", "redemption_id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to grant redemption"})
		}
		return
	}

	h.broadcast(websocket.NewMessage("reward_redemption", "granted", redemption.ID, nil))
	writeJSON(w, http.StatusOK, redemption)
}

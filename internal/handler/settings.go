package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/pontosapp/pontos/internal/store"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, logger: logger}
}

// PINStatus reports whether an admin PIN has been configured.
func (h *SettingsHandler) PINStatus(w http.ResponseWriter, r *http.Request) {
	_, err := h.settings.Get(store.SettingAdminPINHash)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check PIN"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"pin_set": err == nil})
}

type pinRequest struct {
	PIN        string `json:"pin"`
	CurrentPIN string `json:"current_pin"`
}

// SetPIN configures the admin PIN. Changing an existing PIN requires the
// current one.
func (h *SettingsHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.PIN) < 4 || len(req.PIN) > 8 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be 4-8 digits"})
		return
	}

	existing, err := h.settings.Get(store.SettingAdminPINHash)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check PIN"})
		return
	}
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(existing), []byte(req.CurrentPIN)) != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash PIN", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set PIN"})
		return
	}
	if err := h.settings.Set(store.SettingAdminPINHash, string(hash)); err != nil {
		h.logger.Error("failed to store PIN", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

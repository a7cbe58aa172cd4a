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
	"github.com/pontosapp/pontos/internal/task"
	"github.com/pontosapp/pontos/internal/websocket"
)

const defaultTaskIcon = "checkmark-circle-outline"

type TaskHandler struct {
	tasks  *store.TaskStore
	ledger *ledger.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, svc *ledger.Service, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: ts, ledger: svc, hub: hub, logger: logger}
}

func (h *TaskHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// taskResponse annotates a task with the display strings the recording
// screens need.
type taskResponse struct {
	model.Task
	Question          string `json:"question"`
	PointsDescription string `json:"points_description"`
}

func annotateTask(t model.Task) taskResponse {
	return taskResponse{
		Task:              t,
		Question:          task.Question(t.UnitLabel),
		PointsDescription: task.PointsDescription(t.PointsPerUnit, t.UnitLabel),
	}
}

// List returns the active tasks, ordered by title.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListActive()
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, annotateTask(t))
	}
	writeJSON(w, http.StatusOK, out)
}

type taskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PointsPerUnit int    `json:"points_per_unit"`
	UnitLabel     string `json:"unit_label"`
	Icon          string `json:"icon"`
	Active        bool   `json:"is_active"`
}

func (r *taskRequest) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.UnitLabel = strings.TrimSpace(r.UnitLabel)
	if r.Title == "" {
		return "title is required"
	}
	if r.UnitLabel == "" {
		return "unit_label is required"
	}
	if r.PointsPerUnit <= 0 {
		return "points_per_unit must be positive"
	}
	if r.Icon == "" {
		r.Icon = defaultTaskIcon
	}
	return ""
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	created, err := h.tasks.Create(req.Title, req.Description, req.PointsPerUnit, req.UnitLabel, req.Icon, req.Active)
	if err != nil {
		h.logger.Error("failed to create task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	h.broadcast(websocket.NewMessage("task", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, annotateTask(*created))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.tasks.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.tasks.Update(id, req.Title, req.Description, req.PointsPerUnit, req.UnitLabel, req.Icon, req.Active)
	if err != nil {
		h.logger.Error("failed to update task", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}

	h.broadcast(websocket.NewMessage("task", "updated", id, nil))
	writeJSON(w, http.StatusOK, annotateTask(*updated))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.tasks.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
			return
		}
		h.logger.Error("failed to delete task", "task_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}

	h.broadcast(websocket.NewMessage("task", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type completeRequest struct {
	Quantity int `json:"quantity"`
}

// Complete records units of a task and credits the earned points. The points
// value is quantity × points_per_unit, computed here before the write.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be at least 1"})
		return
	}

	t, err := h.tasks.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if t == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}
	if !t.Active {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task is not active"})
		return
	}

	pointsEarned := req.Quantity * t.PointsPerUnit
	completion, settings, err := h.tasks.Complete(t.ID, req.Quantity, pointsEarned)
	if err != nil {
		h.logger.Error("failed to complete task", "task_id", t.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
		return
	}

	h.ledger.Apply(settings)

	h.broadcast(websocket.NewMessage("task_completion", "created", completion.ID, nil))
	h.broadcast(websocket.NewMessage("user_settings", "updated", settings.ID, map[string]any{
		"user_settings": settings,
	}))

	writeJSON(w, http.StatusCreated, map[string]any{
		"completion":          completion,
		"confirmation":        task.ConfirmationText(req.Quantity, t.UnitLabel, pointsEarned),
		"current_points":      settings.CurrentPoints,
		"total_points_earned": settings.TotalPointsEarned,
	})
}

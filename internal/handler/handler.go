// Package handler contains chi HTTP handlers: the JSON activities API and the
// server-rendered board front end.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
	"github.com/Shivanand-hulikatti/activity-board/internal/service"
)

// ActivityHandler holds the HTTP handlers of the activities API.
type ActivityHandler struct {
	svc *service.ActivityService
	log *zap.SugaredLogger
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService, log *zap.SugaredLogger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log.Named("api")}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// pathParam returns a decoded URL parameter. chi matches against the raw
// path when the request carried escapes that do not round-trip (e.g. %2F).
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListActivities handles GET /activities
// Returns all activities as a JSON object keyed by name, in insertion order.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.ListActivities(r.Context())
	if err != nil {
		h.log.Errorw("failed to list activities", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list activities")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Signup handles POST /activities/{name}/signup?email=E
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.Signup(r.Context(), pathParam(r, "name"), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// Unregister handles DELETE /activities/{name}/participants?email=E
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.Unregister(r.Context(), pathParam(r, "name"), r.URL.Query().Get("email"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

func (h *ActivityHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, repository.ErrParticipantNotFound):
		writeError(w, http.StatusNotFound, "Participant not found")
	case errors.Is(err, repository.ErrAlreadyRegistered):
		writeError(w, http.StatusBadRequest, "Student is already signed up")
	case errors.Is(err, repository.ErrActivityFull):
		writeError(w, http.StatusBadRequest, "Activity is full")
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "Email is required")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email address")
	default:
		h.log.Errorw("activities api error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /healthz
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

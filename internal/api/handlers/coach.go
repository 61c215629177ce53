package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aevumlab/aevum/internal/service"
)

type CoachHandler struct {
	svc *service.CoachService
}

func NewCoachHandler(svc *service.CoachService) *CoachHandler {
	return &CoachHandler{svc: svc}
}

type queryRequest struct {
	UserID   string         `json:"user_id"`
	Query    string         `json:"query"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type uploadRequest struct {
	UserID string         `json:"user_id"`
	Topic  string         `json:"topic"`
	Data   map[string]any `json:"data"`
	Query  string         `json:"query,omitempty"`
}

func (h *CoachHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.RouteQuery(r.Context(), req.UserID, req.Query, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserIDRequired),
			errors.Is(err, service.ErrQueryRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to route query")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CoachHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	resp, err := h.svc.HandleUpload(r.Context(), req.UserID, req.Topic, req.Data, req.Query)
	if err != nil {
		if errors.Is(err, service.ErrUserIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CoachHandler) GetContexts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snapshots, err := h.svc.Snapshots(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read contexts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"contexts": snapshots,
	})
}

func (h *CoachHandler) ClearContext(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.svc.ClearContext(userID); err != nil {
		if errors.Is(err, service.ErrUserIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to clear context")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared", "user_id": userID})
}

func (h *CoachHandler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	decisions, err := h.svc.Decisions(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list decisions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"decisions": decisions,
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/user/capture-service/internal/delivery/http/request"
	"github.com/user/capture-service/internal/delivery/http/response"
	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/internal/usecase"
)

type Handler struct {
	jobs   usecase.JobManager
	logger *zap.Logger
}

func NewHandler(jobs usecase.JobManager, logger *zap.Logger) *Handler {
	return &Handler{
		jobs:   jobs,
		logger: logger,
	}
}

func (h *Handler) HandleSubmitCapture(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Paths) == 0 {
		h.writeJSONError(w, "paths cannot be empty", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.Submit(r.Context(), req.Paths)
	if err != nil {
		if errors.Is(err, repository.ErrNoInput) {
			h.writeJSONError(w, "None of the given paths is an existing document", http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to submit capture job", zap.Strings("paths", req.Paths), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.SubmitCaptureResponse{
		Status:  "success",
		Message: "Documents queued for capture",
		JobID:   job.ID,
		Paths:   job.Paths,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	path, ok := h.documentParam(w, r)
	if !ok {
		return
	}

	state, err := h.jobs.GetStatus(r.Context(), path)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "No status recorded for the given document", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get document status", zap.String("document", path), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.DocumentStatusResponse{
		Path:          state.Path,
		CurrentStatus: string(state.CurrentStatus),
		UpdatedAt:     state.UpdatedAt,
		FailureReason: state.FailureReason,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	path, ok := h.documentParam(w, r)
	if !ok {
		return
	}

	results, err := h.jobs.GetResults(r.Context(), path)
	if err != nil {
		h.logger.Error("Failed to get capture results", zap.String("document", path), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.CaptureResultsResponse{Path: path, Results: results})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// documentParam reads the "path" query parameter as an absolute path.
func (h *Handler) documentParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		h.writeJSONError(w, "path query parameter is required", http.StatusBadRequest)
		return "", false
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		h.writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	return abs, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

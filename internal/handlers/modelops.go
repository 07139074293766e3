package handlers

import (
	"errors"
	"net/http"

	"github.com/draftwise/draft-api/internal/artifacts"
	"github.com/draftwise/draft-api/internal/models"
)

// ListModelVersions returns all registered model versions, newest first
// @Summary List Model Versions
// @Tags Model
// @Produce json
// @Success 200 {object} models.ModelVersionsResponse
// @Router /model/versions [get]
func (h *Handler) ListModelVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.registry.ListVersions()
	if err != nil {
		h.logger.Errorw("Failed to list model versions", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list versions")
		return
	}
	if versions == nil {
		versions = []models.VersionInfo{}
	}
	h.jsonResponse(w, http.StatusOK, models.ModelVersionsResponse{Versions: versions})
}

// GetCurrentModel returns the currently served model version
// @Summary Get Current Model
// @Tags Model
// @Produce json
// @Success 200 {object} models.VersionInfo
// @Failure 404 {object} map[string]string "No model registered"
// @Router /model/current [get]
func (h *Handler) GetCurrentModel(w http.ResponseWriter, r *http.Request) {
	current, err := h.registry.CurrentVersion()
	if err != nil {
		h.logger.Errorw("Failed to resolve current model", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to resolve current model")
		return
	}
	if current == nil {
		h.errorResponse(w, http.StatusNotFound, "No model registered")
		return
	}
	h.jsonResponse(w, http.StatusOK, current)
}

// RollbackModel swaps the current model with the previous one
// @Summary Rollback Model
// @Tags Model
// @Produce json
// @Success 200 {object} models.VersionInfo
// @Failure 409 {object} map[string]string "Nothing to roll back to"
// @Router /model/rollback [post]
func (h *Handler) RollbackModel(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Rollback(); err != nil {
		if errors.Is(err, artifacts.ErrNoPreviousModel) {
			h.errorResponse(w, http.StatusConflict, "No previous model to rollback to")
			return
		}
		h.logger.Errorw("Rollback failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Rollback failed")
		return
	}

	current, err := h.registry.CurrentVersion()
	if err != nil || current == nil {
		h.jsonResponse(w, http.StatusOK, map[string]string{"status": "rolled back"})
		return
	}
	h.jsonResponse(w, http.StatusOK, current)
}

// TrainModel runs a training build and registers the result
// @Summary Train Model
// @Tags Model
// @Produce json
// @Success 200 {object} models.TrainResponse
// @Failure 422 {object} models.TrainResponse "No artifact produced"
// @Router /model/train [post]
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	result, err := h.training.Train(r.Context())
	if err != nil {
		h.logger.Errorw("Training failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Training failed")
		return
	}
	if !result.Produced {
		h.jsonResponse(w, http.StatusUnprocessableEntity, models.TrainResponse{
			Message: "No artifact produced: " + result.Reason,
		})
		return
	}

	h.jsonResponse(w, http.StatusOK, models.TrainResponse{
		RunID:     result.RunID,
		Version:   result.Version,
		RowsCount: result.RowsCount,
		Message:   "Model trained and registered",
	})
}

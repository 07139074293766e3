package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/draftwise/draft-api/internal/artifacts"
	"github.com/draftwise/draft-api/internal/logic"
	"github.com/draftwise/draft-api/internal/models"
)

// RecommendDraft returns ranked champion picks for the current draft state
// @Summary Recommend Draft Picks
// @Tags Recommendation
// @Accept json
// @Produce json
// @Param body body models.RecommendDraftRequest true "Draft state"
// @Success 200 {object} models.RecommendDraftResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "No model registered"
// @Router /recommend/draft [post]
func (h *Handler) RecommendDraft(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.RecommendDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	role, err := models.ParseRole(string(req.Role))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Role = role
	if req.TopK == 0 {
		req.TopK = logic.DefaultTopK
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx := r.Context()
	if h.cache != nil {
		if cached := h.cache.Get(ctx, &req); cached != nil {
			h.jsonResponse(w, http.StatusOK, cached)
			return
		}
	}

	resp, err := h.recommend.RecommendDraft(ctx, &req)
	if err != nil {
		if errors.Is(err, artifacts.ErrNoCurrentModel) {
			h.errorResponse(w, http.StatusServiceUnavailable, "Recommendation model not available")
			return
		}
		h.logger.Errorw("Failed to serve recommendations", "error", err, "role", req.Role)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to generate recommendations")
		return
	}

	if h.cache != nil {
		h.cache.Set(ctx, &req, resp)
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

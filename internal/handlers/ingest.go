package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/draftwise/draft-api/internal/models"
)

// IngestMatches handles POST /api/v1/ingest/matches
// @Summary Ingest Match Records
// @Description Accepts newline-separated JSON match records from the crawler
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.RawMatch true "Matches"
// @Success 202 {object} map[string]int "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ingest/matches [post]
func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	defer r.Body.Close()

	accepted := 0
	skipped := 0
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var match models.RawMatch
		if err := json.Unmarshal([]byte(line), &match); err != nil {
			h.logger.Warnw("Failed to unmarshal match record", "error", err)
			skipped++
			continue
		}
		if match.MatchID == "" || match.BlueTeam == "" || match.RedTeam == "" || match.Winner == "" {
			h.logger.Warnw("Match record missing required fields", "matchID", match.MatchID)
			skipped++
			continue
		}

		if h.pool.Enqueue(&match) {
			accepted++
		} else {
			skipped++
		}
	}

	if accepted == 0 && skipped == 0 {
		h.errorResponse(w, http.StatusBadRequest, "Empty request body")
		return
	}

	h.jsonResponse(w, http.StatusAccepted, map[string]int{
		"accepted": accepted,
		"skipped":  skipped,
	})
}

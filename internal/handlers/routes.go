package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)

		r.Post("/recommend/draft", h.RecommendDraft)
		r.Post("/ingest/matches", h.IngestMatches)

		r.Route("/model", func(r chi.Router) {
			r.Get("/versions", h.ListModelVersions)
			r.Get("/current", h.GetCurrentModel)
			r.Post("/rollback", h.RollbackModel)
			r.Post("/train", h.TrainModel)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Health)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.errorResponse(w, http.StatusNotFound, "Not found")
	})

	return r
}

package logic

import (
	"context"

	"github.com/draftwise/draft-api/internal/models"
)

// TrainingService builds, persists and registers a model from parsed match
// data.
type TrainingService interface {
	Train(ctx context.Context) (*BuildResult, error)
}

// RecommendationService scores and ranks champion picks for a draft.
type RecommendationService interface {
	RecommendDraft(ctx context.Context, req *models.RecommendDraftRequest) (*models.RecommendDraftResponse, error)
}

// ModelSource is the slice of the registry the serving path needs: resolve
// the current run to a loaded bundle. The serving path never sees registry
// state directly.
type ModelSource interface {
	LoadLatest() (*models.ArtifactBundle, error)
}

// ArtifactSink is the slice of the registry the training path needs.
type ArtifactSink interface {
	RunDir(runID string) string
	Register(runID, version string, metrics map[string]float64) error
}

// Explainer produces a free-text explanation for a recommended pick. It may
// fail arbitrarily; the recommend service guarantees recovery.
type Explainer interface {
	Explain(ctx context.Context, champion string, allies, enemies, reasons []string) (string, error)
}

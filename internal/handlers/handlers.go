package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/logic"
	"github.com/draftwise/draft-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue defines the interface for the match ingestion worker pool
type IngestQueue interface {
	Enqueue(match *models.RawMatch) bool
	QueueDepth() int
}

// ModelAdmin is the registry surface exposed over the model-ops endpoints.
type ModelAdmin interface {
	ListVersions() ([]models.VersionInfo, error)
	CurrentVersion() (*models.VersionInfo, error)
	Rollback() error
}

// ResponseCache is the optional recommendation cache.
type ResponseCache interface {
	Get(ctx context.Context, req *models.RecommendDraftRequest) *models.RecommendDraftResponse
	Set(ctx context.Context, req *models.RecommendDraftRequest, resp *models.RecommendDraftResponse)
	Ping(ctx context.Context) error
}

type Config struct {
	WorkerPool IngestQueue
	Registry   ModelAdmin
	Cache      ResponseCache // nil disables caching
	Logger     *zap.Logger
	// Services
	Recommend logic.RecommendationService
	Training  logic.TrainingService
}

type Handler struct {
	pool      IngestQueue
	registry  ModelAdmin
	cache     ResponseCache
	logger    *zap.SugaredLogger
	validator *validator.Validate
	recommend logic.RecommendationService
	training  logic.TrainingService
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:      cfg.WorkerPool,
		registry:  cfg.Registry,
		cache:     cfg.Cache,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		recommend: cfg.Recommend,
		training:  cfg.Training,
	}
}

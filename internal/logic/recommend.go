package logic

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/draftwise/draft-api/internal/genai"
	"github.com/draftwise/draft-api/internal/models"
)

// DefaultTopK is used when the request does not set top_k.
const DefaultTopK = 5

// explanationConcurrency bounds parallel calls to the explanation backend.
const explanationConcurrency = 4

// Prometheus metrics
var (
	recommendRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_recommend_requests_total",
		Help: "Total number of draft recommendation requests served",
	})

	candidatesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_candidates_scored_total",
		Help: "Total number of candidates scored",
	})

	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "draft_scoring_duration_seconds",
		Help:    "Duration of scoring all candidates for one request",
		Buckets: prometheus.DefBuckets,
	})

	explanationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draft_explanation_fallbacks_total",
		Help: "Total number of explanations served from the deterministic fallback",
	})
)

type recommendService struct {
	source    ModelSource
	explainer Explainer
	config    models.ScoringConfig
	logger    *zap.SugaredLogger
}

// NewRecommendService creates the serving-path orchestrator. explainer may
// be nil, in which case every explanation uses the deterministic fallback.
func NewRecommendService(
	source ModelSource,
	explainer Explainer,
	config models.ScoringConfig,
	logger *zap.Logger,
) RecommendationService {
	return &recommendService{
		source:    source,
		explainer: explainer,
		config:    config,
		logger:    logger.Sugar(),
	}
}

func (s *recommendService) RecommendDraft(ctx context.Context, req *models.RecommendDraftRequest) (*models.RecommendDraftResponse, error) {
	recommendRequests.Inc()

	bundle, err := s.source.LoadLatest()
	if err != nil {
		return nil, err
	}

	// Candidate pool: everything known for the role, minus champions
	// already committed to the draft. An unknown role yields an empty
	// pool and an empty response, not an error.
	roleStats := bundle.Stats.RoleStrength[string(req.Role)]
	taken := make(map[string]bool, len(req.Allies)+len(req.Enemies)+len(req.Bans))
	for _, c := range req.Allies {
		taken[c] = true
	}
	for _, c := range req.Enemies {
		taken[c] = true
	}
	for _, c := range req.Bans {
		taken[c] = true
	}

	type scored struct {
		champion string
		score    float64
		reasons  []string
	}

	start := time.Now()
	candidates := make([]scored, 0, len(roleStats))
	for champ := range roleStats {
		if taken[champ] {
			continue
		}
		prob, reasons := ScoreCandidate(champ, req.Role, req.Allies, req.Enemies, bundle.Stats, s.config)
		candidates = append(candidates, scored{champion: champ, score: prob, reasons: reasons})
		candidatesScored.Inc()
	}
	scoringDuration.Observe(time.Since(start).Seconds())

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > len(candidates) {
		topK = len(candidates)
	}

	recs := make([]models.Recommendation, topK)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(explanationConcurrency)
	for i := 0; i < topK; i++ {
		i, c := i, candidates[i]
		recs[i] = models.Recommendation{
			Champion: c.champion,
			Score:    c.score,
			Reasons:  c.reasons,
		}
		g.Go(func() error {
			recs[i].Explanation = s.explain(gctx, c.champion, req.Allies, req.Enemies, c.reasons)
			return nil
		})
	}
	// Workers never return errors; Wait only orders the writes.
	_ = g.Wait()

	s.logger.Infow("Served recommendations",
		"role", req.Role,
		"candidates", len(candidates),
		"returned", topK,
		"modelRun", bundle.Manifest.RunID,
	)

	return &models.RecommendDraftResponse{
		Role:            req.Role,
		Allies:          req.Allies,
		Enemies:         req.Enemies,
		Bans:            req.Bans,
		Recommendations: recs,
	}, nil
}

// explain is the try/fallback boundary for the explanation collaborator:
// any failure degrades to the deterministic sentence, never to a failed
// request.
func (s *recommendService) explain(ctx context.Context, champion string, allies, enemies, reasons []string) string {
	if s.explainer == nil {
		explanationFallbacks.Inc()
		return genai.FallbackExplanation(champion, reasons)
	}
	text, err := s.explainer.Explain(ctx, champion, allies, enemies, reasons)
	if err != nil || text == "" {
		if err != nil {
			s.logger.Warnw("Explanation generation failed, using fallback", "champion", champion, "error", err)
		}
		explanationFallbacks.Inc()
		return genai.FallbackExplanation(champion, reasons)
	}
	return text
}

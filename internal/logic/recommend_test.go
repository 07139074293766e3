package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/artifacts"
	"github.com/draftwise/draft-api/internal/models"
)

type fakeSource struct {
	bundle *models.ArtifactBundle
	err    error
}

func (f *fakeSource) LoadLatest() (*models.ArtifactBundle, error) {
	return f.bundle, f.err
}

type fakeExplainer struct {
	err   error
	empty bool
	calls int
}

func (f *fakeExplainer) Explain(ctx context.Context, champion string, allies, enemies, reasons []string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.empty {
		return "", nil
	}
	return "Pick " + champion + ".", nil
}

func recommendBundle() *models.ArtifactBundle {
	manifest, _ := models.NewManifestData("2026-01-01_00-00-00", 1, 100, "test")
	return &models.ArtifactBundle{
		Stats: &models.ArtifactStats{
			RoleStrength: map[string]map[string]float64{
				"MID": {"Ahri": 0.55, "Zed": 0.52, "Lux": 0.48, "Annie": 0.50},
			},
			Synergy: map[string]map[string]models.LiftStat{
				"Ahri": {"Amumu": {Lift: 0.06, Count: 50}},
			},
			Counter: map[string]map[string]models.LiftStat{},
			GlobalWinrates: map[string]float64{
				"Ahri": 0.51, "Zed": 0.50, "Lux": 0.49, "Annie": 0.50,
			},
		},
		Manifest: manifest,
	}
}

func TestRecommendDraftRanking(t *testing.T) {
	svc := NewRecommendService(&fakeSource{bundle: recommendBundle()}, nil, models.DefaultScoringConfig(), zap.NewNop())

	resp, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{
		Role:   models.RoleMid,
		Allies: []string{"Amumu"},
	})
	if err != nil {
		t.Fatalf("RecommendDraft: %v", err)
	}

	if len(resp.Recommendations) != 4 {
		t.Fatalf("recommendations = %d, want all 4 candidates", len(resp.Recommendations))
	}
	if resp.Recommendations[0].Champion != "Ahri" {
		t.Errorf("top pick = %q, want Ahri (base + synergy)", resp.Recommendations[0].Champion)
	}
	for i := 1; i < len(resp.Recommendations); i++ {
		if resp.Recommendations[i].Score > resp.Recommendations[i-1].Score {
			t.Errorf("recommendations not sorted descending at %d", i)
		}
	}
	if resp.Recommendations[0].Explanation == "" {
		t.Error("nil explainer must still produce a fallback explanation")
	}
	if len(resp.Recommendations[0].Reasons) == 0 {
		t.Error("top pick missing reasons")
	}
}

func TestRecommendDraftExcludesTaken(t *testing.T) {
	svc := NewRecommendService(&fakeSource{bundle: recommendBundle()}, nil, models.DefaultScoringConfig(), zap.NewNop())

	resp, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{
		Role:    models.RoleMid,
		Allies:  []string{"Ahri"},
		Enemies: []string{"Zed"},
		Bans:    []string{"Lux"},
	})
	if err != nil {
		t.Fatalf("RecommendDraft: %v", err)
	}

	if len(resp.Recommendations) != 1 {
		t.Fatalf("recommendations = %v, want only Annie left", resp.Recommendations)
	}
	if resp.Recommendations[0].Champion != "Annie" {
		t.Errorf("remaining pick = %q, want Annie", resp.Recommendations[0].Champion)
	}
}

func TestRecommendDraftTopK(t *testing.T) {
	tests := []struct {
		name string
		topK int
		want int
	}{
		{"explicit limit", 2, 2},
		{"zero defaults to five, capped at pool", 0, 4},
		{"limit above pool capped", 50, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRecommendService(&fakeSource{bundle: recommendBundle()}, nil, models.DefaultScoringConfig(), zap.NewNop())
			resp, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{
				Role: models.RoleMid,
				TopK: tt.topK,
			})
			if err != nil {
				t.Fatalf("RecommendDraft: %v", err)
			}
			if len(resp.Recommendations) != tt.want {
				t.Errorf("recommendations = %d, want %d", len(resp.Recommendations), tt.want)
			}
		})
	}
}

func TestRecommendDraftUnknownRole(t *testing.T) {
	svc := NewRecommendService(&fakeSource{bundle: recommendBundle()}, nil, models.DefaultScoringConfig(), zap.NewNop())

	resp, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{
		Role: models.RoleSupport,
	})
	if err != nil {
		t.Fatalf("RecommendDraft: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want empty for role absent from model", resp.Recommendations)
	}
}

func TestRecommendDraftNoModel(t *testing.T) {
	svc := NewRecommendService(&fakeSource{err: artifacts.ErrNoCurrentModel}, nil, models.DefaultScoringConfig(), zap.NewNop())

	_, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{Role: models.RoleMid})
	if !errors.Is(err, artifacts.ErrNoCurrentModel) {
		t.Errorf("err = %v, want ErrNoCurrentModel", err)
	}
}

func TestRecommendDraftExplainerUsed(t *testing.T) {
	exp := &fakeExplainer{}
	svc := NewRecommendService(&fakeSource{bundle: recommendBundle()}, exp, models.DefaultScoringConfig(), zap.NewNop())

	resp, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{
		Role: models.RoleMid,
		TopK: 2,
	})
	if err != nil {
		t.Fatalf("RecommendDraft: %v", err)
	}
	if exp.calls != 2 {
		t.Errorf("explainer calls = %d, want one per returned pick", exp.calls)
	}
	for _, rec := range resp.Recommendations {
		if !strings.HasPrefix(rec.Explanation, "Pick ") {
			t.Errorf("explanation %q not from explainer", rec.Explanation)
		}
	}
}

func TestRecommendDraftExplainerFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		exp  *fakeExplainer
	}{
		{"error", &fakeExplainer{err: fmt.Errorf("backend down")}},
		{"empty text treated as failure", &fakeExplainer{empty: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRecommendService(&fakeSource{bundle: recommendBundle()}, tt.exp, models.DefaultScoringConfig(), zap.NewNop())
			resp, err := svc.RecommendDraft(context.Background(), &models.RecommendDraftRequest{
				Role: models.RoleMid,
				TopK: 1,
			})
			if err != nil {
				t.Fatalf("RecommendDraft: %v", err)
			}
			rec := resp.Recommendations[0]
			if rec.Explanation == "" {
				t.Fatal("fallback explanation missing")
			}
			if !strings.HasPrefix(rec.Explanation, rec.Champion) {
				t.Errorf("fallback %q should lead with the champion name", rec.Explanation)
			}
		})
	}
}

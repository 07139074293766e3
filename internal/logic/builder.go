package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	mstats "github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/artifacts"
	"github.com/draftwise/draft-api/internal/models"
)

// BuildResult reports the outcome of a training run. An empty or fully
// filtered dataset is a normal outcome (Produced=false with a Reason), not
// an error.
type BuildResult struct {
	Produced  bool
	Reason    string
	RunID     string
	Version   string
	RowsCount int
	Metrics   map[string]float64
}

type trainingService struct {
	dataDir   string
	store     *artifacts.Store
	registry  ArtifactSink
	smoothing models.SmoothingConfig
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewTrainingService creates the builder that turns parsed match data under
// dataDir into a registered artifact run.
func NewTrainingService(
	dataDir string,
	store *artifacts.Store,
	registry ArtifactSink,
	smoothing models.SmoothingConfig,
	logger *zap.Logger,
) TrainingService {
	return &trainingService{
		dataDir:   dataDir,
		store:     store,
		registry:  registry,
		smoothing: smoothing,
		logger:    logger.Sugar(),
		now:       time.Now,
	}
}

func (s *trainingService) Train(ctx context.Context) (*BuildResult, error) {
	if err := s.smoothing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smoothing config: %w", err)
	}

	s.logger.Infow("Starting artifact build",
		"dataDir", s.dataDir,
		"rolePrior", fmt.Sprintf("Beta(%v,%v)", s.smoothing.RoleAlpha, s.smoothing.RoleBeta),
		"pairPrior", fmt.Sprintf("Beta(%v,%v)", s.smoothing.PairAlpha, s.smoothing.PairBeta),
		"minSamples", s.smoothing.MinSamples,
	)

	matches, err := s.loadMatches(ctx)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		s.logger.Warnw("No match data found", "dataDir", s.dataDir)
		return &BuildResult{Produced: false, Reason: "no match data found"}, nil
	}

	rows, malformed := ExtractParticipants(matches)
	if len(rows) == 0 {
		s.logger.Warnw("No valid participants extracted", "matches", len(matches), "malformed", malformed)
		return &BuildResult{Produced: false, Reason: "no valid participants extracted"}, nil
	}
	s.logger.Infow("Expanded matches to participant rows",
		"rows", len(rows),
		"malformedSkipped", malformed,
	)

	stats, err := BuildArtifactStats(rows, s.smoothing)
	if err != nil {
		return nil, fmt.Errorf("failed to validate artifact stats: %w", err)
	}

	synergyPairs := 0
	for _, pairs := range stats.Synergy {
		synergyPairs += len(pairs)
	}
	counterPairs := 0
	for _, pairs := range stats.Counter {
		counterPairs += len(pairs)
	}
	s.logger.Infow("Computed statistics",
		"champions", len(stats.GlobalWinrates),
		"synergyPairs", synergyPairs,
		"counterPairs", counterPairs,
	)

	runID := s.now().Format("2006-01-02_15-04-05")
	manifest, err := models.NewManifestData(runID, float64(s.now().Unix()), len(rows), s.dataDir)
	if err != nil {
		return nil, err
	}
	manifest.Config = map[string]any{
		"smoothing": fmt.Sprintf("role=Beta(%v,%v), pair=Beta(%v,%v)",
			s.smoothing.RoleAlpha, s.smoothing.RoleBeta,
			s.smoothing.PairAlpha, s.smoothing.PairBeta),
		"min_samples": s.smoothing.MinSamples,
	}
	manifest.DataQuality = dataQualityMetrics(stats, malformed, len(rows))
	manifest.ArtifactStats = map[string]int{
		"synergy_pairs": synergyPairs,
		"counter_pairs": counterPairs,
		"num_champions": len(stats.GlobalWinrates),
	}

	bundle := &models.ArtifactBundle{Stats: stats, Manifest: manifest}
	if err := s.store.Save(s.registry.RunDir(runID), bundle); err != nil {
		return nil, err
	}

	metrics := map[string]float64{
		"rows":          float64(len(rows)),
		"champions":     float64(len(stats.GlobalWinrates)),
		"synergy_pairs": float64(synergyPairs),
		"counter_pairs": float64(counterPairs),
	}
	if err := s.registry.Register(runID, manifest.Version, metrics); err != nil {
		return nil, err
	}

	return &BuildResult{
		Produced:  true,
		RunID:     runID,
		Version:   manifest.Version,
		RowsCount: len(rows),
		Metrics:   metrics,
	}, nil
}

// loadMatches reads every JSON file under the data dir. Files that fail to
// decode are logged and skipped; the build continues with the rest.
func (s *trainingService) loadMatches(ctx context.Context) ([]models.RawMatch, error) {
	if _, err := os.Stat(s.dataDir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat data dir %s: %w", s.dataDir, err)
	}

	var matches []models.RawMatch
	err := filepath.WalkDir(s.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warnw("Failed to read match file", "path", path, "error", err)
			return nil
		}

		// Partitions hold arrays; single-record files are tolerated.
		var batch []models.RawMatch
		if err := json.Unmarshal(raw, &batch); err == nil {
			matches = append(matches, batch...)
			return nil
		}
		var one models.RawMatch
		if err := json.Unmarshal(raw, &one); err != nil {
			s.logger.Warnw("Failed to decode match file", "path", path, "error", err)
			return nil
		}
		matches = append(matches, one)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk data dir: %w", err)
	}

	s.logger.Infow("Loaded match records", "count", len(matches), "dataDir", s.dataDir)
	return matches, nil
}

// ExtractParticipants explodes match records into per-participant rows: one
// row per champion per match, tagged with its allies and the full enemy
// roster. Matches with undecodable team JSON, empty rosters or an unknown
// winner are counted as malformed and skipped.
func ExtractParticipants(matches []models.RawMatch) ([]models.ParticipantRow, int) {
	var rows []models.ParticipantRow
	malformed := 0

	for _, m := range matches {
		var blue, red []models.TeamSlot
		if err := json.Unmarshal([]byte(m.BlueTeam), &blue); err != nil {
			malformed++
			continue
		}
		if err := json.Unmarshal([]byte(m.RedTeam), &red); err != nil {
			malformed++
			continue
		}
		winner := models.TeamSide(strings.ToUpper(m.Winner))
		if winner != models.SideBlue && winner != models.SideRed {
			malformed++
			continue
		}
		if len(blue) == 0 || len(red) == 0 || !rosterValid(blue) || !rosterValid(red) {
			malformed++
			continue
		}

		rows = append(rows, teamRows(m.MatchID, blue, red, winner == models.SideBlue)...)
		rows = append(rows, teamRows(m.MatchID, red, blue, winner == models.SideRed)...)
	}

	return rows, malformed
}

func rosterValid(team []models.TeamSlot) bool {
	for _, slot := range team {
		if slot.Champion == "" || slot.Role == "" {
			return false
		}
	}
	return true
}

func teamRows(matchID string, team, opponents []models.TeamSlot, won bool) []models.ParticipantRow {
	enemies := make([]string, 0, len(opponents))
	for _, o := range opponents {
		enemies = append(enemies, o.Champion)
	}

	rows := make([]models.ParticipantRow, 0, len(team))
	for _, p := range team {
		allies := make([]string, 0, len(team)-1)
		for _, a := range team {
			if a.Champion != p.Champion {
				allies = append(allies, a.Champion)
			}
		}
		rows = append(rows, models.ParticipantRow{
			MatchID:  matchID,
			Champion: p.Champion,
			Role:     strings.ToUpper(p.Role),
			Win:      won,
			Allies:   allies,
			Enemies:  enemies,
		})
	}
	return rows
}

// smoothedWinrate applies the Beta-prior formula (wins+a)/(games+a+b).
func smoothedWinrate(wins, games float64, alpha, beta float64) float64 {
	return (wins + alpha) / (games + alpha + beta)
}

type tally struct {
	wins  float64
	games float64
}

// BuildArtifactStats aggregates participant rows into the four statistics
// tables and validates the result as a whole.
func BuildArtifactStats(rows []models.ParticipantRow, cfg models.SmoothingConfig) (*models.ArtifactStats, error) {
	globalTallies := make(map[string]*tally)
	roleTallies := make(map[string]map[string]*tally)
	synergyTallies := make(map[string]map[string]*tally)
	counterTallies := make(map[string]map[string]*tally)

	bump := func(m map[string]map[string]*tally, outer, inner string, win bool) {
		pairs, ok := m[outer]
		if !ok {
			pairs = make(map[string]*tally)
			m[outer] = pairs
		}
		t, ok := pairs[inner]
		if !ok {
			t = &tally{}
			pairs[inner] = t
		}
		t.games++
		if win {
			t.wins++
		}
	}

	for _, row := range rows {
		t, ok := globalTallies[row.Champion]
		if !ok {
			t = &tally{}
			globalTallies[row.Champion] = t
		}
		t.games++
		if row.Win {
			t.wins++
		}

		bump(roleTallies, row.Role, row.Champion, row.Win)
		for _, ally := range row.Allies {
			bump(synergyTallies, row.Champion, ally, row.Win)
		}
		for _, enemy := range row.Enemies {
			bump(counterTallies, row.Champion, enemy, row.Win)
		}
	}

	globalWinrates := make(map[string]float64, len(globalTallies))
	for champ, t := range globalTallies {
		globalWinrates[champ] = smoothedWinrate(t.wins, t.games, cfg.RoleAlpha, cfg.RoleBeta)
	}

	roleStrength := make(map[string]map[string]float64, len(roleTallies))
	for role, champs := range roleTallies {
		roleStrength[role] = make(map[string]float64, len(champs))
		for champ, t := range champs {
			roleStrength[role][champ] = smoothedWinrate(t.wins, t.games, cfg.RoleAlpha, cfg.RoleBeta)
		}
	}

	synergy := liftTable(synergyTallies, globalWinrates, cfg)
	counter := liftTable(counterTallies, globalWinrates, cfg)

	return models.NewArtifactStats(roleStrength, synergy, counter, globalWinrates)
}

// liftTable converts pairwise tallies into lifts against the champion's
// global baseline. Pairs below the min-samples floor are excluded entirely:
// no amount of shrinkage makes a handful of games trustworthy enough to
// surface as a directional signal.
func liftTable(
	tallies map[string]map[string]*tally,
	globalWinrates map[string]float64,
	cfg models.SmoothingConfig,
) map[string]map[string]models.LiftStat {
	out := make(map[string]map[string]models.LiftStat)
	for champ, pairs := range tallies {
		base, ok := globalWinrates[champ]
		if !ok {
			base = 0.5
		}
		for other, t := range pairs {
			if int(t.games) < cfg.MinSamples {
				continue
			}
			pairWinrate := smoothedWinrate(t.wins, t.games, cfg.PairAlpha, cfg.PairBeta)
			lift := clamp(pairWinrate-base, -1.0, 1.0)

			if out[champ] == nil {
				out[champ] = make(map[string]models.LiftStat)
			}
			out[champ][other] = models.LiftStat{Lift: lift, Count: int(t.games)}
		}
	}
	return out
}

// dataQualityMetrics summarizes the run for the manifest: malformed input
// counters plus a distribution summary of the global winrates.
func dataQualityMetrics(stats *models.ArtifactStats, malformed, rowCount int) map[string]float64 {
	dq := map[string]float64{
		"malformed_count": float64(malformed),
		"skipped_pct":     math.Round(float64(malformed)/math.Max(float64(rowCount), 1)*100*100) / 100,
	}

	winrates := make([]float64, 0, len(stats.GlobalWinrates))
	for _, wr := range stats.GlobalWinrates {
		winrates = append(winrates, wr)
	}
	if len(winrates) > 0 {
		if mean, err := mstats.Mean(winrates); err == nil {
			dq["winrate_mean"] = mean
		}
		if sd, err := mstats.StandardDeviation(winrates); err == nil {
			dq["winrate_stddev"] = sd
		}
		if med, err := mstats.Median(winrates); err == nil {
			dq["winrate_median"] = med
		}
	}
	return dq
}

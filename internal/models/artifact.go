package models

import "fmt"

// ArtifactStats is the trained statistics bundle: everything the scoring
// engine needs to rank candidates for a draft.
//
// RoleStrength is keyed role -> champion -> smoothed winrate.
// Synergy and Counter are keyed champion -> ally/enemy -> LiftStat.
// GlobalWinrates is the per-champion baseline the lifts are measured against.
type ArtifactStats struct {
	RoleStrength   map[string]map[string]float64  `json:"role_strength"`
	Synergy        map[string]map[string]LiftStat `json:"synergy"`
	Counter        map[string]map[string]LiftStat `json:"counter"`
	GlobalWinrates map[string]float64             `json:"global_winrates"`
}

// NewArtifactStats builds a validated ArtifactStats. A single out-of-range
// winrate or lift anywhere fails construction for the whole object.
func NewArtifactStats(
	roleStrength map[string]map[string]float64,
	synergy map[string]map[string]LiftStat,
	counter map[string]map[string]LiftStat,
	globalWinrates map[string]float64,
) (*ArtifactStats, error) {
	s := &ArtifactStats{
		RoleStrength:   roleStrength,
		Synergy:        synergy,
		Counter:        counter,
		GlobalWinrates: globalWinrates,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every winrate is in [0, 1] and every lift stat is in
// range. Fail-fast: the first violation aborts.
func (s *ArtifactStats) Validate() error {
	for role, champs := range s.RoleStrength {
		for champ, wr := range champs {
			if wr < 0.0 || wr > 1.0 {
				return fmt.Errorf("invalid winrate for %s/%s: %v (must be in [0.0, 1.0])", role, champ, wr)
			}
		}
	}
	for champ, wr := range s.GlobalWinrates {
		if wr < 0.0 || wr > 1.0 {
			return fmt.Errorf("invalid global winrate for %s: %v (must be in [0.0, 1.0])", champ, wr)
		}
	}
	for champ, allies := range s.Synergy {
		for ally, ls := range allies {
			if err := ls.Validate(); err != nil {
				return fmt.Errorf("invalid synergy stat for %s/%s: %w", champ, ally, err)
			}
		}
	}
	for champ, enemies := range s.Counter {
		for enemy, ls := range enemies {
			if err := ls.Validate(); err != nil {
				return fmt.Errorf("invalid counter stat for %s/%s: %w", champ, enemy, err)
			}
		}
	}
	return nil
}

// ArtifactBundle pairs the trained statistics with the run provenance that
// makes them reproducible. One bundle per training run; never mutated.
type ArtifactBundle struct {
	Stats    *ArtifactStats `json:"stats"`
	Manifest *ManifestData  `json:"manifest"`
}

// Validate re-validates both halves of the bundle.
func (b *ArtifactBundle) Validate() error {
	if b.Stats == nil {
		return fmt.Errorf("bundle has no stats")
	}
	if b.Manifest == nil {
		return fmt.Errorf("bundle has no manifest")
	}
	if err := b.Stats.Validate(); err != nil {
		return err
	}
	return b.Manifest.Validate()
}

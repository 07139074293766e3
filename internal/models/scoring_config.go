package models

import "fmt"

// SmoothingConfig controls the Beta-prior Bayesian smoothing applied by the
// statistics builder. alpha = beta gives a 50% prior; alpha + beta is the
// prior's strength in pseudo-games. Pairwise data is sparser than role data,
// so the pair prior defaults to double the role prior's weight.
type SmoothingConfig struct {
	RoleAlpha float64
	RoleBeta  float64
	PairAlpha float64
	PairBeta  float64

	// MinSamples is a hard gate, not a smoothing parameter: pairs with fewer
	// raw games are excluded from the output entirely.
	MinSamples int
}

// DefaultSmoothingConfig returns Beta(5,5) for roles, Beta(10,10) for pairs
// and a 5-game pair floor.
func DefaultSmoothingConfig() SmoothingConfig {
	return SmoothingConfig{
		RoleAlpha:  5.0,
		RoleBeta:   5.0,
		PairAlpha:  10.0,
		PairBeta:   10.0,
		MinSamples: 5,
	}
}

// Validate rejects non-positive priors and a sub-1 sample floor.
func (c SmoothingConfig) Validate() error {
	if c.RoleAlpha <= 0 || c.RoleBeta <= 0 {
		return fmt.Errorf("role prior must be positive: Beta(%v,%v)", c.RoleAlpha, c.RoleBeta)
	}
	if c.PairAlpha <= 0 || c.PairBeta <= 0 {
		return fmt.Errorf("pair prior must be positive: Beta(%v,%v)", c.PairAlpha, c.PairBeta)
	}
	if c.MinSamples < 1 {
		return fmt.Errorf("min_samples must be >= 1, got %d", c.MinSamples)
	}
	return nil
}

// ScoringConfig controls how the additive lift model combines role strength,
// synergy and counter effects in logit space.
type ScoringConfig struct {
	RoleStrengthWeight float64
	SynergyWeight      float64
	CounterWeight      float64

	// LogitScale converts a probability-space delta into an approximately
	// equivalent log-odds delta: a 1% winrate diff is roughly a 0.04 logit
	// change near p=0.5, hence the default of 4.0.
	LogitScale float64
}

// DefaultScoringConfig returns the balanced weights used in serving.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		RoleStrengthWeight: 1.0,
		SynergyWeight:      0.5,
		CounterWeight:      0.5,
		LogitScale:         4.0,
	}
}

// Validate checks weight ranges.
func (c ScoringConfig) Validate() error {
	if c.RoleStrengthWeight < 0 || c.RoleStrengthWeight > 1 {
		return fmt.Errorf("role_strength_weight must be in [0, 1], got %v", c.RoleStrengthWeight)
	}
	if c.SynergyWeight < 0 || c.SynergyWeight > 1 {
		return fmt.Errorf("synergy_weight must be in [0, 1], got %v", c.SynergyWeight)
	}
	if c.CounterWeight < 0 || c.CounterWeight > 1 {
		return fmt.Errorf("counter_weight must be in [0, 1], got %v", c.CounterWeight)
	}
	if c.LogitScale <= 0 {
		return fmt.Errorf("logit_scale must be > 0, got %v", c.LogitScale)
	}
	return nil
}

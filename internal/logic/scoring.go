// Package logic implements the training and serving pipeline: statistics
// building from participant rows, additive-lift scoring in logit space, and
// draft recommendation orchestration.
package logic

import (
	"fmt"
	"math"

	"github.com/draftwise/draft-api/internal/models"
)

// logitEpsilon keeps probabilities away from the 0/1 boundary before the
// log-odds transform.
const logitEpsilon = 1e-7

// liftClampLimit caps each aggregate lift sum. A long ally/enemy list of
// small positive lifts must not compound into an implausible effect; ±15%
// is already extreme for aggregated lifts.
const liftClampLimit = 0.15

// reasonThreshold suppresses lift reasons below half a percentage point.
const reasonThreshold = 0.005

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Logit converts a probability to log-odds, clamping the input to
// [epsilon, 1-epsilon] to avoid infinities.
func Logit(p float64) float64 {
	p = clamp(p, logitEpsilon, 1-logitEpsilon)
	return math.Log(p / (1 - p))
}

// Sigmoid converts log-odds back to a probability. Two-branch formulation
// so exp never overflows for large |x|.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		z := math.Exp(-x)
		return 1.0 / (1.0 + z)
	}
	z := math.Exp(x)
	return z / (1.0 + z)
}

// ScoreCandidate scores one champion for one role against the current draft
// using the additive lift model:
//
//  1. Base role winrate (0.5 when the champion-role pair is unseen).
//  2. Convert to log-odds.
//  3. Sum synergy lifts over allies and counter lifts over enemies; absent
//     pairs contribute zero.
//  4. Clamp each aggregate independently.
//  5. Combine in logit space with the configured weights and scale.
//  6. Sigmoid back to a probability.
//
// The returned reasons surface the base winrate, any lift above the noise
// threshold, and the final probability, in that order.
func ScoreCandidate(
	candidate string,
	role models.Role,
	allies, enemies []string,
	stats *models.ArtifactStats,
	config models.ScoringConfig,
) (float64, []string) {
	roleWinrate := 0.5
	if champs, ok := stats.RoleStrength[string(role)]; ok {
		if wr, ok := champs[candidate]; ok {
			roleWinrate = wr
		}
	}

	baseLogit := Logit(roleWinrate)

	var synergyScore, counterScore float64
	if pairs, ok := stats.Synergy[candidate]; ok {
		for _, ally := range allies {
			if ls, ok := pairs[ally]; ok {
				synergyScore += ls.Lift
			}
		}
	}
	if pairs, ok := stats.Counter[candidate]; ok {
		for _, enemy := range enemies {
			if ls, ok := pairs[enemy]; ok {
				counterScore += ls.Lift
			}
		}
	}

	synergyScore = clamp(synergyScore, -liftClampLimit, liftClampLimit)
	counterScore = clamp(counterScore, -liftClampLimit, liftClampLimit)

	totalLogit := baseLogit +
		synergyScore*config.SynergyWeight*config.LogitScale +
		counterScore*config.CounterWeight*config.LogitScale

	finalProb := Sigmoid(totalLogit)

	reasons := make([]string, 0, 4)
	reasons = append(reasons, fmt.Sprintf("Base Winrate: %.1f%%", roleWinrate*100))
	if math.Abs(synergyScore) > reasonThreshold {
		reasons = append(reasons, fmt.Sprintf("Synergy Lift: %+.1f%%", synergyScore*100))
	}
	if math.Abs(counterScore) > reasonThreshold {
		reasons = append(reasons, fmt.Sprintf("Counter Lift: %+.1f%%", counterScore*100))
	}
	reasons = append(reasons, fmt.Sprintf("Final Prob: %.1f%%", finalProb*100))

	return finalProb, reasons
}

package models

import "fmt"

// LiftStat is the smoothed winrate delta of a champion when paired with a
// specific ally (synergy) or facing a specific enemy (counter), together
// with the number of games backing the estimate.
type LiftStat struct {
	Lift  float64 `json:"lift"`
	Count int     `json:"count"`
}

// NewLiftStat builds a validated LiftStat. Out-of-range lift or a
// non-positive count is rejected, not clamped.
func NewLiftStat(lift float64, count int) (LiftStat, error) {
	ls := LiftStat{Lift: lift, Count: count}
	if err := ls.Validate(); err != nil {
		return LiftStat{}, err
	}
	return ls, nil
}

// Validate checks range invariants. Used both at construction time and
// after JSON decoding, so a hand-edited artifact fails the same checks a
// fresh build would.
func (l LiftStat) Validate() error {
	if l.Lift < -1.0 || l.Lift > 1.0 {
		return fmt.Errorf("invalid lift %v: must be in [-1.0, 1.0]", l.Lift)
	}
	if l.Count <= 0 {
		return fmt.Errorf("invalid count %d: must be > 0", l.Count)
	}
	return nil
}

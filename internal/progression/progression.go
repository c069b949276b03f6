// Package progression holds the fixed sets×reps progression table.
//
// An exercise advances through nine tiers ordered reps-major: every sets
// value (3, 4, 5) at 8 reps, then at 10 reps, then at 12 reps. The index
// into this table is the only progression cursor an exercise carries; it
// wraps back to 0 after the hardest tier, at which point weighted
// exercises take a load increase instead of regressing.
package progression

import "errors"

// Stage is one sets×reps tier.
type Stage struct {
	Sets int `json:"sets"`
	Reps int `json:"reps"`
}

// ErrInvalidCombination is returned when a sets/reps pair matches no tier.
var ErrInvalidCombination = errors.New("invalid combination of sets and reps")

// stages is the canonical table. Order matters: the stage index stored per
// exercise is a position in this slice.
var stages = []Stage{
	{Sets: 3, Reps: 8},
	{Sets: 4, Reps: 8},
	{Sets: 5, Reps: 8},
	{Sets: 3, Reps: 10},
	{Sets: 4, Reps: 10},
	{Sets: 5, Reps: 10},
	{Sets: 3, Reps: 12},
	{Sets: 4, Reps: 12},
	{Sets: 5, Reps: 12},
}

// StageCount is the number of tiers in the table.
const StageCount = 9

// WeightIncrement is added to a weighted exercise's load when its stage
// index wraps past the last tier. Same unit as the recorded weight.
const WeightIncrement = 5.0

// StageAt returns the tier at the given index. Indexes outside [0,
// StageCount) are reduced modulo the table size, so a stored index is
// always resolvable.
func StageAt(index int) Stage {
	i := index % StageCount
	if i < 0 {
		i += StageCount
	}
	return stages[i]
}

// NextIndex returns the stage index after index, wrapping to 0 past the
// last tier.
func NextIndex(index int) int {
	return (index + 1) % StageCount
}

// FindStageIndex returns the index of the tier matching sets and reps, or
// -1 and ErrInvalidCombination when no tier matches.
func FindStageIndex(sets, reps int) (int, error) {
	for i, s := range stages {
		if s.Sets == sets && s.Reps == reps {
			return i, nil
		}
	}
	return -1, ErrInvalidCombination
}

// Stages returns a copy of the full table, first tier to last.
func Stages() []Stage {
	out := make([]Stage, StageCount)
	copy(out, stages)
	return out
}

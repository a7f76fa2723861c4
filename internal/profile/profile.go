// Package profile maps a level index onto generation targets. ForLevel is a
// pure function with no internal state, so concurrent generation attempts
// can call it freely.
package profile

import "svw.info/bottlesort/internal/domain"

// LevelCap is where the difficulty ramp flattens: every parameter holds its
// level-100 value beyond it and only the seed varies generation.
const LevelCap = 100

// Profile is the level-indexed generation target set. Values are recomputed
// on demand and never mutated.
type Profile struct {
	LevelIndex int
	Band       domain.Band

	// Bottle composition.
	ColorCount            int
	EmptyCount            int
	SinkCount             int
	CapacityPool          []int
	MinDistinctCapacities int
	MinSmall              int // bottles with capacity <= SmallCapacityMax
	MinLarge              int // bottles with capacity >= LargeCapacityMin

	// Scramble shape.
	ReverseMoveCount    int
	FragmentationTarget float64 // min average bottles touched per color

	// Acceptance and play budget.
	OptimalFloor int
	SlackFactor  float64
}

// Capacity classes for the small/large minimums.
const (
	SmallCapacityMax = 3
	LargeCapacityMin = 5
)

// ForLevel returns the profile for a level index. All parameters ramp
// linearly from a level-1 floor to the level-100 ceiling and plateau above.
func ForLevel(level int) Profile {
	if level < 1 {
		level = 1
	}
	if level > LevelCap {
		level = LevelCap
	}
	return Profile{
		LevelIndex:            level,
		Band:                  domain.BandForLevel(level),
		ColorCount:            round(lerp(level, 2, 8)),
		EmptyCount:            2,
		SinkCount:             round(lerp(level, 0, 2)),
		CapacityPool:          []int{3, 4, 5, 6},
		MinDistinctCapacities: round(lerp(level, 1, 3)),
		MinSmall:              round(lerp(level, 0, 2)),
		MinLarge:              round(lerp(level, 0, 2)),
		ReverseMoveCount:      round(lerp(level, 6, 44)),
		FragmentationTarget:   lerp(level, 1.1, 2.2),
		OptimalFloor:          round(lerp(level, 2, 16)),
		SlackFactor:           lerp(level, 2.5, 1.3),
	}
}

// Relaxed returns the fallback profile used after the attempt ceiling:
// a shallower scramble with looser acceptance, trading difficulty fidelity
// for a guaranteed instance.
func (p Profile) Relaxed() Profile {
	out := p
	out.ReverseMoveCount = max(4, p.ReverseMoveCount*2/3)
	out.OptimalFloor = max(1, p.OptimalFloor/2)
	out.FragmentationTarget = 1.0
	return out
}

// BottleCount is the total bottle count implied by the profile.
func (p Profile) BottleCount() int {
	return p.ColorCount + p.EmptyCount + p.SinkCount
}

func lerp(level int, floor, ceil float64) float64 {
	t := float64(level-1) / float64(LevelCap-1)
	return floor + (ceil-floor)*t
}

func round(f float64) int {
	return int(f + 0.5)
}

package generator

import (
	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/encoding"
	"svw.info/bottlesort/internal/profile"
)

// Thresholds is the per-band acceptance predicate input. Ceilings tighten
// downward and floors upward as the band increases.
type Thresholds struct {
	MaxForcedMoveRatio float64
	MaxDecisionDepth   int
	MaxEmptyUsageRatio float64
	MinBranchingFactor float64
	MinTrapScore       float64
	MinMultiplicity    int
	MinOptimalMoves    int

	// Structural checks, independent of the numeric metrics.
	MinMixedBottles       int
	MinDistinctSignatures int
	MinTopColorVariety    int
	MinFragmentation      float64
}

// ThresholdsFor combines the band's metric table with the profile's
// structural floors.
func ThresholdsFor(p profile.Profile) Thresholds {
	var t Thresholds
	switch p.Band {
	case domain.Easy:
		t = Thresholds{
			MaxForcedMoveRatio: 0.90, MaxDecisionDepth: 8, MaxEmptyUsageRatio: 0.90,
			MinBranchingFactor: 1.1, MinTrapScore: 0.0, MinMultiplicity: 1,
			MinMixedBottles: 1, MinDistinctSignatures: 3, MinTopColorVariety: 2,
		}
	case domain.Medium:
		t = Thresholds{
			MaxForcedMoveRatio: 0.80, MaxDecisionDepth: 6, MaxEmptyUsageRatio: 0.85,
			MinBranchingFactor: 1.4, MinTrapScore: 0.05, MinMultiplicity: 1,
			MinMixedBottles: 2, MinDistinctSignatures: 4, MinTopColorVariety: 2,
		}
	case domain.Hard:
		t = Thresholds{
			MaxForcedMoveRatio: 0.70, MaxDecisionDepth: 5, MaxEmptyUsageRatio: 0.80,
			MinBranchingFactor: 1.7, MinTrapScore: 0.15, MinMultiplicity: 2,
			MinMixedBottles: 3, MinDistinctSignatures: 5, MinTopColorVariety: 3,
		}
	default: // Expert
		t = Thresholds{
			MaxForcedMoveRatio: 0.60, MaxDecisionDepth: 4, MaxEmptyUsageRatio: 0.75,
			MinBranchingFactor: 2.0, MinTrapScore: 0.25, MinMultiplicity: 2,
			MinMixedBottles: 4, MinDistinctSignatures: 6, MinTopColorVariety: 3,
		}
	}
	t.MinOptimalMoves = p.OptimalFloor
	t.MinFragmentation = p.FragmentationTarget
	return t
}

// Relaxed loosens every bound so that any solvable, non-trivial instance
// passes. Used by the generator's fallback after the attempt ceiling.
func (t Thresholds) Relaxed() Thresholds {
	return Thresholds{
		MaxForcedMoveRatio:    1.0,
		MaxDecisionDepth:      int(^uint(0) >> 1),
		MaxEmptyUsageRatio:    1.0,
		MinOptimalMoves:       max(1, t.MinOptimalMoves/2),
		MinMixedBottles:       1,
		MinDistinctSignatures: 1,
		MinTopColorVariety:    1,
		MinFragmentation:      1.0,
	}
}

// Accept is the quality-gate predicate. The reason names the first failed
// check, for generator logging.
func Accept(m domain.LevelMetrics, s *domain.PuzzleState, t Thresholds) (bool, string) {
	switch {
	case m.OptimalMoves < t.MinOptimalMoves:
		return false, "optimal moves below floor"
	case m.ForcedMoveRatio > t.MaxForcedMoveRatio:
		return false, "forced-move ratio above ceiling"
	case m.DecisionDepth > t.MaxDecisionDepth:
		return false, "decision depth above ceiling"
	case m.EmptyBottleUsageRatio > t.MaxEmptyUsageRatio:
		return false, "empty-bottle usage above ceiling"
	case m.AvgBranchingFactor < t.MinBranchingFactor:
		return false, "branching factor below floor"
	case m.TrapScore < t.MinTrapScore:
		return false, "trap score below floor"
	case m.SolutionMultiplicity < t.MinMultiplicity:
		return false, "solution multiplicity below floor"
	case mixedBottles(s) < t.MinMixedBottles:
		return false, "too few mixed bottles"
	case distinctSignatures(s) < t.MinDistinctSignatures:
		return false, "too few distinct bottle signatures"
	case topColorVariety(s) < t.MinTopColorVariety:
		return false, "too little top-color variety"
	case fragmentation(s) < t.MinFragmentation:
		return false, "colors not fragmented enough"
	}
	return true, ""
}

// Objective is the scalar hill-climb score: higher is harder/richer. The
// weights favor low forcedness and real trap risk over raw branching.
func Objective(m domain.LevelMetrics) float64 {
	return 2.0*(1.0-m.ForcedMoveRatio) +
		0.6*m.AvgBranchingFactor +
		1.5*m.TrapScore +
		1.0/(1.0+float64(m.DecisionDepth)) +
		0.5*float64(m.SolutionMultiplicity)
}

// mixedBottles counts bottles holding at least two colors.
func mixedBottles(s *domain.PuzzleState) int {
	n := 0
	for _, b := range s.Bottles {
		if !b.IsEmpty() && !b.IsSolved() {
			n++
		}
	}
	return n
}

// distinctSignatures counts visually distinct bottles.
func distinctSignatures(s *domain.PuzzleState) int {
	seen := make(map[uint64]struct{}, len(s.Bottles))
	for _, b := range s.Bottles {
		seen[encoding.Signature(b)] = struct{}{}
	}
	return len(seen)
}

// topColorVariety counts distinct colors visible at the top of bottles.
func topColorVariety(s *domain.PuzzleState) int {
	seen := make(map[domain.ColorID]struct{})
	for _, b := range s.Bottles {
		if c := b.TopColor(); c != domain.NoColor {
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}

// fragmentation is the mean number of bottles each color is spread across.
func fragmentation(s *domain.PuzzleState) float64 {
	spread := make(map[domain.ColorID]map[int]struct{})
	for i, b := range s.Bottles {
		for _, u := range b.Units {
			if spread[u] == nil {
				spread[u] = make(map[int]struct{})
			}
			spread[u][i] = struct{}{}
		}
	}
	if len(spread) == 0 {
		return 0
	}
	total := 0
	for _, bottles := range spread {
		total += len(bottles)
	}
	return float64(total) / float64(len(spread))
}

package domain

import "errors"

// ErrInvalidState signals a malformed state handed across the API boundary.
// It indicates a caller bug, never an expected runtime condition.
var ErrInvalidState = errors.New("bottlesort: invalid puzzle state")

// Move transfers the maximal contiguous top-color run of Source into Target.
// Amount is fixed by the state the move was enumerated from, not chosen.
type Move struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Amount int `json:"amount"`
}

// UnknownOptimal is the sentinel depth for "not solved within budget". It
// must never be read as "unsolvable".
const UnknownOptimal = -1

// SolverResult carries the optimal depth and, in path mode, the full move
// sequence achieving it.
type SolverResult struct {
	OptimalMoves int    `json:"optimalMoves"`
	Path         []Move `json:"path,omitempty"`
}

// LevelMetrics are the decision-density measurements attached to a generated
// instance for quality gating. They are not part of the persisted state.
type LevelMetrics struct {
	OptimalMoves          int     `json:"optimalMoves"`
	ForcedMoveRatio       float64 `json:"forcedMoveRatio"`
	AvgBranchingFactor    float64 `json:"avgBranchingFactor"`
	DecisionDepth         int     `json:"decisionDepth"`
	EmptyBottleUsageRatio float64 `json:"emptyBottleUsageRatio"`
	TrapScore             float64 `json:"trapScore"`
	SolutionMultiplicity  int     `json:"solutionMultiplicity"`
}

// PuzzleState is an ordered collection of bottles plus move counters and
// generation metadata. Bottles are addressed by position; the index is the
// identity. Instances are never shared mutably: every layer works on clones.
type PuzzleState struct {
	Bottles       []Bottle `json:"bottles"`
	MovesUsed     int      `json:"movesUsed"`
	MovesAllowed  int      `json:"movesAllowed"`
	OptimalMoves  int      `json:"optimalMoves"`
	LevelIndex    int      `json:"levelIndex"`
	Seed          int64    `json:"seed"`
	ScrambleMoves int      `json:"scrambleMoves"`
}

// Clone returns a deep value copy of the state.
func (s *PuzzleState) Clone() *PuzzleState {
	out := *s
	out.Bottles = make([]Bottle, len(s.Bottles))
	for i, b := range s.Bottles {
		out.Bottles[i] = b.Clone()
	}
	return &out
}

// ColorCounts returns the multiset of units per color across all bottles.
// Pours redistribute units, so this is invariant for a puzzle's lifetime.
func (s *PuzzleState) ColorCounts() map[ColorID]int {
	counts := make(map[ColorID]int)
	for _, b := range s.Bottles {
		for _, u := range b.Units {
			counts[u]++
		}
	}
	return counts
}

// Validate checks the structural invariants of a state handed in from
// outside: at least two bottles, positive capacities, no overflow, and no
// reserved zero color in an occupied slot.
func (s *PuzzleState) Validate() error {
	if s == nil || len(s.Bottles) < 2 {
		return ErrInvalidState
	}
	for _, b := range s.Bottles {
		if b.Capacity <= 0 || len(b.Units) > b.Capacity {
			return ErrInvalidState
		}
		for _, u := range b.Units {
			if u == NoColor {
				return ErrInvalidState
			}
		}
	}
	return nil
}

// Puzzle is a persisted instance with metadata, the unit the storage
// adapter saves and lists.
type Puzzle struct {
	ID         string      `json:"id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Band       Band        `json:"band"`
	LevelIndex int         `json:"levelIndex"`
	Seed       int64       `json:"seed"`
	State      PuzzleState `json:"state"`
	CreatedAt  int64       `json:"createdAt,omitempty"`
}

// PuzzleMeta is a lightweight listing entry.
type PuzzleMeta struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Band       Band   `json:"band"`
	LevelIndex int    `json:"levelIndex"`
	CreatedAt  int64  `json:"createdAt"`
}

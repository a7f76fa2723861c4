package ports

import (
	"context"
	"time"

	"svw.info/bottlesort/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// Budget bounds a single search or generation call. Budgets are the only
// termination mechanism: there is no partial or streaming result, and
// "cancel" means the caller discards the returned value.
type Budget struct {
	MaxNodes int
	MaxTime  time.Duration
}

// Solver finds shortest move sequences to a winning state.
type Solver interface {
	// Solve returns the optimal depth only, or UnknownOptimal when the
	// budget is exhausted first.
	Solve(ctx context.Context, s *domain.PuzzleState, b Budget) (domain.SolverResult, Stats, error)
	// SolveWithPath additionally reconstructs the full move path.
	// allowSinkMoves toggles whether pours into sink bottles are enumerated.
	SolveWithPath(ctx context.Context, s *domain.PuzzleState, b Budget, allowSinkMoves bool) (domain.SolverResult, Stats, error)
	// CountNearOptimal counts distinct winning states reachable within
	// optimal+slack moves, capped at cap.
	CountNearOptimal(ctx context.Context, s *domain.PuzzleState, optimal, slack, limit int, b Budget) (int, Stats, error)
}

// Generator constructs solvable instances for a level index and seed.
type Generator interface {
	Generate(ctx context.Context, seed int64, levelIndex int) (*domain.PuzzleState, Stats, error)
}

// Hinter suggests the next move of a bounded optimal solve.
type Hinter interface {
	Hint(ctx context.Context, s *domain.PuzzleState, b Budget, allowSinkMoves bool) (domain.Move, bool, error)
}

// Validator performs fast structural checks on states crossing the boundary.
type Validator interface {
	Validate(ctx context.Context, s *domain.PuzzleState) (ok bool, problems []string, err error)
}

// Storage persists and retrieves puzzles as JSON.
type Storage interface {
	Save(ctx context.Context, p *domain.Puzzle) error
	Load(ctx context.Context, id string) (*domain.Puzzle, error)
	List(ctx context.Context) ([]domain.PuzzleMeta, error)
}

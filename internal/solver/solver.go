// Package solver implements breadth-first optimal-cost search over the pour
// move graph, with visited-set deduplication and node/time budgets.
package solver

import (
	"context"
	"errors"
	"time"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/ports"
)

// ErrInvalidBudget rejects non-positive node or time budgets at the boundary.
var ErrInvalidBudget = errors.New("bottlesort: budget must be positive")

// BFSSolver is stateless; every call operates on clones of its input, so a
// single value is safe to share across goroutines.
type BFSSolver struct{}

func NewBFSSolver() *BFSSolver { return &BFSSolver{} }

func checkInput(s *domain.PuzzleState, b ports.Budget) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if b.MaxNodes <= 0 || b.MaxTime <= 0 {
		return ErrInvalidBudget
	}
	return nil
}

// Solve returns the optimal move count from s, or UnknownOptimal when the
// budget is exhausted or no winning state is reachable. Callers must treat
// UnknownOptimal as "unknown", never as "unsolvable".
func (v *BFSSolver) Solve(ctx context.Context, s *domain.PuzzleState, b ports.Budget) (domain.SolverResult, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(s, b); err != nil {
		return domain.SolverResult{OptimalMoves: domain.UnknownOptimal}, ports.Stats{}, err
	}
	res, nodes, err := search(ctx, s, b, true, false)
	return res, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
}

// SolveWithPath additionally reconstructs the full optimal move path.
// allowSinkMoves toggles whether pours into sink bottles are enumerated, so
// live auto-solve can avoid routing liquid through sinks.
func (v *BFSSolver) SolveWithPath(ctx context.Context, s *domain.PuzzleState, b ports.Budget, allowSinkMoves bool) (domain.SolverResult, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(s, b); err != nil {
		return domain.SolverResult{OptimalMoves: domain.UnknownOptimal}, ports.Stats{}, err
	}
	res, nodes, err := search(ctx, s, b, allowSinkMoves, true)
	return res, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
}

// CountNearOptimal counts distinct winning states reachable in at most
// optimal+slack moves, capped at cap. It is the solution-multiplicity proxy
// used by the metrics computer.
func (v *BFSSolver) CountNearOptimal(ctx context.Context, s *domain.PuzzleState, optimal, slack, limit int, b ports.Budget) (int, ports.Stats, error) {
	start := time.Now()
	if err := checkInput(s, b); err != nil {
		return 0, ports.Stats{}, err
	}
	if optimal < 0 || slack < 0 || limit <= 0 {
		return 0, ports.Stats{}, ErrInvalidBudget
	}
	wins, nodes, err := countWins(ctx, s, b, optimal+slack, limit)
	return wins, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
}

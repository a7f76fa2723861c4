// Package hint suggests the next move of a bounded optimal solve, for the
// live-play assist feature.
package hint

import (
	"context"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/ports"
)

// NextMove is a Hinter backed by the path-mode solver.
type NextMove struct {
	Solver ports.Solver
}

func New(s ports.Solver) *NextMove { return &NextMove{Solver: s} }

// Hint returns the first move of an optimal path from s, or ok=false when no
// path was found within the budget. allowSinkMoves mirrors the solver policy:
// assisted solves can refuse to route liquid through sink bottles.
func (h *NextMove) Hint(ctx context.Context, s *domain.PuzzleState, b ports.Budget, allowSinkMoves bool) (domain.Move, bool, error) {
	res, _, err := h.Solver.SolveWithPath(ctx, s, b, allowSinkMoves)
	if err != nil {
		return domain.Move{}, false, err
	}
	if res.OptimalMoves <= 0 || len(res.Path) == 0 {
		return domain.Move{}, false, nil
	}
	return res.Path[0], true, nil
}

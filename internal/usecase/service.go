package usecase

import (
	"context"
	"errors"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/ports"
)

// Service is the facade the session layer consumes. The engine underneath is
// pure: every call takes value snapshots and returns new values, so the
// caller owns all mutable session state and lifecycle timing.
type Service struct {
	Solver    ports.Solver
	Generator ports.Generator
	Hinter    ports.Hinter
	Validator ports.Validator
	Storage   ports.Storage
}

func NewService(s ports.Solver, g ports.Generator, h ports.Hinter, v ports.Validator, st ports.Storage) *Service {
	return &Service{Solver: s, Generator: g, Hinter: h, Validator: v, Storage: st}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) Generate(ctx context.Context, seed int64, levelIndex int) (*domain.PuzzleState, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	return u.Generator.Generate(ctx, seed, levelIndex)
}

func (u *Service) Solve(ctx context.Context, s *domain.PuzzleState, b ports.Budget) (domain.SolverResult, ports.Stats, error) {
	if u.Solver == nil {
		return domain.SolverResult{OptimalMoves: domain.UnknownOptimal}, ports.Stats{}, errNotConfigured
	}
	return u.Solver.Solve(ctx, s, b)
}

func (u *Service) SolveWithPath(ctx context.Context, s *domain.PuzzleState, b ports.Budget, allowSinkMoves bool) (domain.SolverResult, ports.Stats, error) {
	if u.Solver == nil {
		return domain.SolverResult{OptimalMoves: domain.UnknownOptimal}, ports.Stats{}, errNotConfigured
	}
	return u.Solver.SolveWithPath(ctx, s, b, allowSinkMoves)
}

// ApplyMove is the only state-mutating operation and never mutates in place:
// it returns the post-move value, or the input unchanged on a no-op.
func (u *Service) ApplyMove(s *domain.PuzzleState, source, target int) (*domain.PuzzleState, int) {
	return domain.TryApplyMove(s, source, target)
}

func (u *Service) Hint(ctx context.Context, s *domain.PuzzleState, b ports.Budget, allowSinkMoves bool) (domain.Move, bool, error) {
	if u.Hinter == nil {
		return domain.Move{}, false, errNotConfigured
	}
	return u.Hinter.Hint(ctx, s, b, allowSinkMoves)
}

func (u *Service) Validate(ctx context.Context, s *domain.PuzzleState) (bool, []string, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, s)
}

// Persistence
func (u *Service) Save(ctx context.Context, p *domain.Puzzle) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	return u.Storage.Save(ctx, p)
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Puzzle, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.PuzzleMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

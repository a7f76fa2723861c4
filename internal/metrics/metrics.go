// Package metrics computes decision-density measurements over a solved
// instance and its optimal path. Everything here is deterministic: trap
// sampling picks evenly spaced moves in enumeration order instead of drawing
// randomly, so a seed always grades to the same score.
package metrics

import (
	"context"
	"time"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/ports"
)

// Sampling and budget constants. These are tunable heuristics, not
// load-bearing values; the trap estimate in particular is a bounded sample,
// not an exhaustive measure.
const (
	TrapSamples       = 12
	trapNodeBudget    = 2000
	trapTimeBudget    = 50 * time.Millisecond
	MultiplicityCap   = 3
	MultiplicitySlack = 2
	multNodeBudget    = 5000
	multTimeBudget    = 80 * time.Millisecond
)

// Computer grades instances, using a solver for the trap and multiplicity
// sub-searches.
type Computer struct {
	Solver ports.Solver
}

func NewComputer(s ports.Solver) *Computer { return &Computer{Solver: s} }

// Compute walks the optimal path and derives the full metric set. The path
// must be a valid solution of s; optimal is its length.
func (c *Computer) Compute(ctx context.Context, s *domain.PuzzleState, path []domain.Move) (domain.LevelMetrics, error) {
	m := domain.LevelMetrics{OptimalMoves: len(path), DecisionDepth: len(path)}
	if len(path) == 0 {
		return m, nil
	}

	forced := 0
	branchSum := 0
	emptyTargets := 0
	decisionSeen := false

	cur := s.Clone()
	for i, mv := range path {
		legal := cur.LegalMoves(true)
		branchSum += len(legal)
		if len(legal) == 1 {
			forced++
		}
		if !decisionSeen && len(legal) >= 2 {
			m.DecisionDepth = i
			decisionSeen = true
		}
		if cur.Bottles[mv.Target].IsEmpty() {
			emptyTargets++
		}
		next, err := cur.Apply(mv)
		if err != nil {
			return domain.LevelMetrics{}, err
		}
		cur = next
	}

	steps := float64(len(path))
	m.ForcedMoveRatio = float64(forced) / steps
	m.AvgBranchingFactor = float64(branchSum) / steps
	m.EmptyBottleUsageRatio = float64(emptyTargets) / steps

	trap, err := c.trapScore(ctx, s, path[0], len(path))
	if err != nil {
		return domain.LevelMetrics{}, err
	}
	m.TrapScore = trap

	mult, _, err := c.Solver.CountNearOptimal(ctx, s, len(path), MultiplicitySlack, MultiplicityCap,
		ports.Budget{MaxNodes: multNodeBudget, MaxTime: multTimeBudget})
	if err != nil {
		return domain.LevelMetrics{}, err
	}
	m.SolutionMultiplicity = mult
	return m, nil
}

// trapScore estimates the risk of deviating from the optimal line: the
// fraction of sampled non-optimal root moves that are unsolved within a
// tight budget or strictly longer than optimal.
func (c *Computer) trapScore(ctx context.Context, s *domain.PuzzleState, first domain.Move, optimal int) (float64, error) {
	var candidates []domain.Move
	for _, mv := range s.LegalMoves(true) {
		if mv != first {
			candidates = append(candidates, mv)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	sampled := candidates
	if len(candidates) > TrapSamples {
		sampled = make([]domain.Move, 0, TrapSamples)
		for i := 0; i < TrapSamples; i++ {
			sampled = append(sampled, candidates[i*len(candidates)/TrapSamples])
		}
	}

	budget := ports.Budget{MaxNodes: trapNodeBudget, MaxTime: trapTimeBudget}
	traps := 0
	for _, mv := range sampled {
		branch, err := s.Apply(mv)
		if err != nil {
			return 0, err
		}
		res, _, err := c.Solver.Solve(ctx, branch, budget)
		if err != nil {
			return 0, err
		}
		if res.OptimalMoves == domain.UnknownOptimal || res.OptimalMoves+1 > optimal {
			traps++
		}
	}
	return float64(traps) / float64(len(sampled)), nil
}

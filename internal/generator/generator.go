// Package generator builds solvable puzzle instances by reverse
// construction: valid inverse pours applied to a solved configuration, so
// every accepted instance is solvable by definition, with the optimal depth
// confirmed by the solver and the decision quality enforced by the gate.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/metrics"
	"svw.info/bottlesort/internal/ports"
	"svw.info/bottlesort/internal/profile"
)

var (
	// ErrGenerationFailed signals that the seed cannot satisfy its profile
	// within the attempt ceiling, including the relaxed fallback. Callers
	// retry with a perturbed seed; the generator never guesses one itself.
	ErrGenerationFailed = errors.New("bottlesort: generation failed")
	// ErrInvalidLevel rejects non-positive level indexes at the boundary.
	ErrInvalidLevel = errors.New("bottlesort: level index must be >= 1")
)

const (
	attemptCeiling       = 6
	candidatesPerAttempt = 3
	solveNodeBudget      = 150_000
	solveTimeBudget      = 900 * time.Millisecond
)

// Generator is stateless between calls; determinism comes entirely from the
// (seed, level, attempt, candidate) mix, so concurrent calls for different
// seeds are safe.
type Generator struct {
	Solver  ports.Solver
	Metrics *metrics.Computer
	Logger  *slog.Logger
}

func New(s ports.Solver, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Solver: s, Metrics: metrics.NewComputer(s), Logger: logger}
}

// Generate produces an accepted instance for the seed and level index. The
// profile is derived internally; after the attempt ceiling a relaxed profile
// is tried before giving up with ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, seed int64, levelIndex int) (*domain.PuzzleState, ports.Stats, error) {
	start := time.Now()
	if levelIndex < 1 {
		return nil, ports.Stats{}, ErrInvalidLevel
	}
	prof := profile.ForLevel(levelIndex)
	// Parameters plateau at the level cap, but the instance keeps the
	// requested index so levels above the cap still scramble differently.
	prof.LevelIndex = levelIndex

	nodes := 0
	st, err := g.tryProfile(ctx, seed, prof, ThresholdsFor(prof), 0, &nodes)
	if err == nil {
		return st, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
	}
	if !errors.Is(err, ErrGenerationFailed) {
		return nil, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, err
	}

	relaxed := prof.Relaxed()
	g.Logger.Debug("falling back to relaxed profile", "seed", seed, "level", levelIndex)
	st, err = g.tryProfile(ctx, seed, relaxed, ThresholdsFor(prof).Relaxed(), attemptCeiling, &nodes)
	if err != nil {
		return nil, ports.Stats{Nodes: nodes, Duration: time.Since(start)},
			fmt.Errorf("%w: seed %d level %d", ErrGenerationFailed, seed, levelIndex)
	}
	return st, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// tryProfile runs the attempt loop for one profile. Each attempt scores a
// few candidate scrambles on the difficulty objective and keeps the best
// one that clears the gate.
func (g *Generator) tryProfile(ctx context.Context, seed int64, prof profile.Profile, thr Thresholds, attemptOffset int, nodes *int) (*domain.PuzzleState, error) {
	budget := ports.Budget{MaxNodes: solveNodeBudget, MaxTime: solveTimeBudget}

	for attempt := 0; attempt < attemptCeiling; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var best *domain.PuzzleState
		bestScore := math.Inf(-1)

		for cand := 0; cand < candidatesPerAttempt; cand++ {
			rng := rand.New(rand.NewSource(mixSeed(seed, prof.LevelIndex, attemptOffset+attempt, cand)))
			base := buildSolved(prof, rng)
			st := base.Clone()
			moves := scramble(st, prof.ReverseMoveCount, rng)
			if len(moves) < scrambleFloor(prof.ReverseMoveCount) || chainRisky(st) {
				continue
			}

			res, stats, err := g.Solver.SolveWithPath(ctx, st, budget, true)
			*nodes += stats.Nodes
			if err != nil {
				return nil, err
			}
			depth := len(moves)
			if res.OptimalMoves == domain.UnknownOptimal {
				// Solvable in principle, just not within the generation
				// budget. Each inverse pour raises the confirmed depth by at
				// most one, so some prefix of the scramble is always within
				// reach; keep the deepest one the solver can still confirm.
				st, res, depth, err = g.deepestSolvable(ctx, base, moves, budget, nodes)
				if err != nil {
					return nil, err
				}
				if st == nil {
					continue
				}
			}

			m, err := g.Metrics.Compute(ctx, st, res.Path)
			if err != nil {
				return nil, err
			}
			ok, reason := Accept(m, st, thr)
			if !ok {
				g.Logger.Debug("candidate rejected", "seed", seed, "level", prof.LevelIndex,
					"attempt", attemptOffset+attempt, "candidate", cand, "reason", reason)
				continue
			}
			if score := Objective(m); score > bestScore {
				bestScore = score
				best = finalize(st, prof, seed, res.OptimalMoves, depth)
			}
		}
		if best != nil {
			return best, nil
		}
	}
	return nil, ErrGenerationFailed
}

// deepestSolvable replays progressively shorter prefixes of the scramble
// from the solved base until the solver confirms one within budget. Returns
// a nil state when no prefix of at least four moves can be confirmed.
func (g *Generator) deepestSolvable(ctx context.Context, base *domain.PuzzleState, moves []domain.Move, budget ports.Budget, nodes *int) (*domain.PuzzleState, domain.SolverResult, int, error) {
	step := max(1, len(moves)/5)
	for k := len(moves) - step; k >= 4; k -= step {
		if err := ctx.Err(); err != nil {
			return nil, domain.SolverResult{}, 0, err
		}
		st := base.Clone()
		for _, mv := range moves[:k] {
			if err := st.MoveUnits(mv.Source, mv.Target, mv.Amount); err != nil {
				return nil, domain.SolverResult{}, 0, err
			}
		}
		if chainRisky(st) {
			continue
		}
		res, stats, err := g.Solver.SolveWithPath(ctx, st, budget, true)
		*nodes += stats.Nodes
		if err != nil {
			return nil, domain.SolverResult{}, 0, err
		}
		if res.OptimalMoves != domain.UnknownOptimal {
			return st, res, k, nil
		}
	}
	return nil, domain.SolverResult{}, 0, nil
}

// finalize stamps the generation metadata onto an accepted scramble.
func finalize(st *domain.PuzzleState, prof profile.Profile, seed int64, optimal, applied int) *domain.PuzzleState {
	out := st.Clone()
	out.Seed = seed
	out.LevelIndex = prof.LevelIndex
	out.OptimalMoves = optimal
	out.ScrambleMoves = applied
	out.MovesUsed = 0
	out.MovesAllowed = int(math.Ceil(float64(optimal) * prof.SlackFactor))
	return out
}

// mixSeed derives an independent rng seed per (seed, level, attempt,
// candidate) tuple, splitmix64-style, to avoid cross-level seed aliasing.
func mixSeed(seed int64, level, attempt, candidate int) int64 {
	x := uint64(seed)
	x ^= uint64(level) * 0x9E3779B97F4A7C15
	x ^= uint64(attempt)<<32 ^ uint64(candidate)<<48
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}

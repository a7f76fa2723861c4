package generator

import (
	"math/rand"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/profile"
)

// buildSolved constructs a fully solved configuration matching the profile:
// one full single-color bottle per color with capacities drawn from the pool
// under the small/large/distinct minimums, plus empty regular and sink
// bottles. Bottle order is shuffled so position carries no structure.
func buildSolved(p profile.Profile, rng *rand.Rand) *domain.PuzzleState {
	caps := drawCapacities(p, rng)
	bottles := make([]domain.Bottle, 0, p.BottleCount())
	for i, c := range caps {
		bottles = append(bottles, domain.FullBottle(c, domain.ColorID(i+1)))
	}
	for i := 0; i < p.EmptyCount; i++ {
		bottles = append(bottles, domain.NewBottle(pick(p.CapacityPool, rng)))
	}
	for i := 0; i < p.SinkCount; i++ {
		bottles = append(bottles, domain.NewSink(pick(p.CapacityPool, rng)))
	}
	rng.Shuffle(len(bottles), func(i, j int) {
		bottles[i], bottles[j] = bottles[j], bottles[i]
	})
	return &domain.PuzzleState{Bottles: bottles}
}

func drawCapacities(p profile.Profile, rng *rand.Rand) []int {
	var small, large []int
	for _, c := range p.CapacityPool {
		if c <= profile.SmallCapacityMax {
			small = append(small, c)
		}
		if c >= profile.LargeCapacityMin {
			large = append(large, c)
		}
	}
	caps := make([]int, 0, p.ColorCount)
	for i := 0; i < p.MinSmall && len(caps) < p.ColorCount && len(small) > 0; i++ {
		caps = append(caps, pick(small, rng))
	}
	for i := 0; i < p.MinLarge && len(caps) < p.ColorCount && len(large) > 0; i++ {
		caps = append(caps, pick(large, rng))
	}
	for len(caps) < p.ColorCount {
		caps = append(caps, pick(p.CapacityPool, rng))
	}
	// Swap in unused pool capacities until the distinct minimum holds.
	for _, c := range p.CapacityPool {
		if distinct(caps) >= p.MinDistinctCapacities {
			break
		}
		if !contains(caps, c) {
			caps[indexOfDuplicate(caps)] = c
		}
	}
	rng.Shuffle(len(caps), func(i, j int) { caps[i], caps[j] = caps[j], caps[i] })
	return caps
}

// inverseMoves enumerates every valid inverse pour from s. An inverse move
// lifts k units of the top run of a non-sink source and pushes them onto a
// non-sink target whose top color differs, so that the corresponding forward
// pour is legal and moves back exactly k units. k must either leave the
// source's top color unchanged (k < run) or empty the source (k == count);
// exposing a different color underneath would make the forward pour illegal.
func inverseMoves(s *domain.PuzzleState) []domain.Move {
	var moves []domain.Move
	for src := range s.Bottles {
		sb := &s.Bottles[src]
		if sb.Sink || sb.IsEmpty() {
			continue
		}
		c, run := sb.TopRun()
		ks := make([]int, 0, run)
		for k := 1; k < run; k++ {
			ks = append(ks, k)
		}
		if run == sb.Count() {
			ks = append(ks, run)
		}
		for tgt := range s.Bottles {
			tb := &s.Bottles[tgt]
			if tgt == src || tb.Sink || tb.TopColor() == c {
				continue
			}
			for _, k := range ks {
				if k <= tb.FreeSpace() {
					moves = append(moves, domain.Move{Source: src, Target: tgt, Amount: k})
				}
			}
		}
	}
	return moves
}

// scramble applies up to reverseMoves inverse pours in place, driven by the
// deterministic rng, and returns the moves applied in order. Immediate undo
// of the previous inverse move is skipped when any alternative exists. The
// supply of inverse moves can dry up before the target on tightly packed
// configurations, so callers must treat the target as a ceiling, not a
// guarantee.
func scramble(s *domain.PuzzleState, reverseMoves int, rng *rand.Rand) []domain.Move {
	applied := make([]domain.Move, 0, reverseMoves)
	prev := domain.Move{Source: -1, Target: -1}
	for len(applied) < reverseMoves {
		candidates := inverseMoves(s)
		if len(candidates) == 0 {
			break
		}
		filtered := candidates[:0:0]
		for _, m := range candidates {
			if m.Source == prev.Target && m.Target == prev.Source {
				continue
			}
			filtered = append(filtered, m)
		}
		if len(filtered) == 0 {
			filtered = candidates
		}
		mv := filtered[rng.Intn(len(filtered))]
		if err := s.MoveUnits(mv.Source, mv.Target, mv.Amount); err != nil {
			break
		}
		prev = mv
		applied = append(applied, mv)
	}
	return applied
}

// scrambleFloor is the minimum applied-move count a candidate scramble needs
// to be worth solving. High-level configurations run out of inverse moves
// well short of the profile target (nearly all free capacity sits in the two
// empty bottles), so requiring the exact target would reject every candidate
// at those levels.
func scrambleFloor(target int) int {
	return max(4, target/3)
}

// chainRisky rejects scrambles where several empty bottles are each
// fillable by many sources at once: such states collapse into an obvious
// "dump everything into the empties" opening.
func chainRisky(s *domain.PuzzleState) bool {
	maxEmptyCap := 0
	empties := 0
	for _, b := range s.Bottles {
		if b.Sink || !b.IsEmpty() {
			continue
		}
		empties++
		if b.Capacity > maxEmptyCap {
			maxEmptyCap = b.Capacity
		}
	}
	if empties < 2 {
		return false
	}
	sources := 0
	for _, b := range s.Bottles {
		if b.Sink || !b.IsSolved() {
			continue
		}
		if b.Count() <= maxEmptyCap {
			sources++
		}
	}
	return sources >= 2*empties
}

func pick(vals []int, rng *rand.Rand) int { return vals[rng.Intn(len(vals))] }

func contains(vals []int, v int) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

func distinct(vals []int) int {
	seen := make(map[int]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func indexOfDuplicate(vals []int) int {
	seen := make(map[int]int, len(vals))
	for i, v := range vals {
		if _, ok := seen[v]; ok {
			return i
		}
		seen[v] = i
	}
	return len(vals) - 1
}

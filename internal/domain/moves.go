package domain

import "errors"

// ErrIllegalTransfer is returned by MoveUnits when the requested
// redistribution breaks a structural invariant.
var ErrIllegalTransfer = errors.New("bottlesort: illegal unit transfer")

// PourAmount returns how many units a pour from source to target would move
// under play rules, or 0 when the pour is a no-op. The amount is always the
// maximal contiguous top run of the source that fits into the target.
//
// A pour is a no-op when: either index is out of range, source and target
// coincide, the source is empty or a sink, the target is full, or the target
// is non-empty with a different top color.
func (s *PuzzleState) PourAmount(source, target int) int {
	if source < 0 || source >= len(s.Bottles) || target < 0 || target >= len(s.Bottles) {
		return 0
	}
	if source == target {
		return 0
	}
	src := &s.Bottles[source]
	tgt := &s.Bottles[target]
	if src.IsEmpty() || src.Sink || tgt.IsFull() {
		return 0
	}
	c, run := src.TopRun()
	if !tgt.IsEmpty() && tgt.TopColor() != c {
		return 0
	}
	if free := tgt.FreeSpace(); run > free {
		return free
	}
	return run
}

// LegalMoves enumerates the search-legal moves from s in the fixed order
// ascending source index, then ascending target index. Fixing the order
// keeps solver results reproducible across runs and platforms.
//
// Search rules tighten play rules in two ways: pouring a solved bottle's
// entire contents into an empty bottle is excluded (the resulting state is
// equivalent for solving purposes), and pours into sink bottles can be
// switched off for assisted-solve callers via allowSinkTargets.
func (s *PuzzleState) LegalMoves(allowSinkTargets bool) []Move {
	var moves []Move
	for src := range s.Bottles {
		for tgt := range s.Bottles {
			if !allowSinkTargets && s.Bottles[tgt].Sink {
				continue
			}
			n := s.PourAmount(src, tgt)
			if n == 0 {
				continue
			}
			sb := &s.Bottles[src]
			if s.Bottles[tgt].IsEmpty() && sb.IsSolved() && n == sb.Count() {
				continue
			}
			moves = append(moves, Move{Source: src, Target: tgt, Amount: n})
		}
	}
	return moves
}

// MoveUnits transfers n units from the top of source to the top of target.
// It enforces only the structural constraints (single-color run, capacity);
// move-grammar legality is the caller's concern. The generator uses it to
// apply inverse pours that are not themselves forward-legal.
func (s *PuzzleState) MoveUnits(source, target, n int) error {
	if source < 0 || source >= len(s.Bottles) || target < 0 || target >= len(s.Bottles) ||
		source == target || n <= 0 {
		return ErrIllegalTransfer
	}
	src := &s.Bottles[source]
	tgt := &s.Bottles[target]
	c, run := src.TopRun()
	if n > run || n > tgt.FreeSpace() {
		return ErrIllegalTransfer
	}
	src.pop(n)
	tgt.push(c, n)
	return nil
}

// Apply returns a clone of s with m applied and the move counter advanced.
// The move must have been enumerated from s; amounts are not re-derived.
func (s *PuzzleState) Apply(m Move) (*PuzzleState, error) {
	next := s.Clone()
	if err := next.MoveUnits(m.Source, m.Target, m.Amount); err != nil {
		return nil, err
	}
	next.MovesUsed++
	return next, nil
}

// TryApplyMove applies a play move. It never mutates s: on success it
// returns a new state and the poured amount; on a no-op it returns s
// unchanged with amount 0.
func TryApplyMove(s *PuzzleState, source, target int) (*PuzzleState, int) {
	n := s.PourAmount(source, target)
	if n == 0 {
		return s, 0
	}
	next := s.Clone()
	if err := next.MoveUnits(source, target, n); err != nil {
		return s, 0
	}
	next.MovesUsed++
	return next, n
}

// IsWin reports whether every bottle is empty or solved AND the state is
// maximally merged: no legal move could reduce the number of bottles holding
// a given color. Two solved same-color bottles that could be losslessly
// combined do not count as finished.
func (s *PuzzleState) IsWin() bool {
	for _, b := range s.Bottles {
		if !b.IsEmpty() && !b.IsSolved() {
			return false
		}
	}
	for i := range s.Bottles {
		src := &s.Bottles[i]
		if src.Sink || !src.IsSolved() {
			continue
		}
		for j := range s.Bottles {
			if i == j {
				continue
			}
			tgt := &s.Bottles[j]
			if !tgt.IsSolved() || tgt.TopColor() != src.TopColor() {
				continue
			}
			if src.Count() <= tgt.FreeSpace() {
				return false
			}
		}
	}
	return true
}

// IsFail reports whether the move budget is spent without reaching a win.
func (s *PuzzleState) IsFail() bool {
	return s.MovesUsed >= s.MovesAllowed && !s.IsWin()
}

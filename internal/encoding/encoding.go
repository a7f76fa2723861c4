// Package encoding produces canonical keys for puzzle states. Keys are pure
// functions of bottle contents: move counters and generation metadata never
// contribute, so move-graph-equivalent states share a key.
package encoding

import (
	"github.com/cespare/xxhash/v2"

	"svw.info/bottlesort/internal/domain"
)

// Key returns the exact canonical key for a state, used by the solver's
// visited set. Two states have equal keys iff their bottle contents are
// identical, so deduplication never drops a reachable state.
func Key(s *domain.PuzzleState) string {
	return string(appendState(make([]byte, 0, 4*len(s.Bottles)+totalUnits(s)), s))
}

// StateHash returns a 64-bit fingerprint of a state. It is collision-prone
// in principle and must only be used where a wrong match is tolerable
// (telemetry, candidate diffing), never for search deduplication.
func StateHash(s *domain.PuzzleState) uint64 {
	return xxhash.Sum64(appendState(nil, s))
}

// Signature returns a 64-bit fingerprint of a single bottle's contents,
// used by the quality gate's structural variety checks.
func Signature(b domain.Bottle) uint64 {
	return xxhash.Sum64(appendBottle(nil, b))
}

func appendState(buf []byte, s *domain.PuzzleState) []byte {
	for _, b := range s.Bottles {
		buf = appendBottle(buf, b)
	}
	return buf
}

func appendBottle(buf []byte, b domain.Bottle) []byte {
	sink := byte(0)
	if b.Sink {
		sink = 1
	}
	buf = append(buf, byte(b.Capacity), sink)
	for _, u := range b.Units {
		// ColorID zero is reserved, so 0 is a safe terminator.
		buf = append(buf, byte(u))
	}
	return append(buf, 0)
}

func totalUnits(s *domain.PuzzleState) int {
	n := 0
	for _, b := range s.Bottles {
		n += b.Count()
	}
	return n
}

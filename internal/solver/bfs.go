package solver

import (
	"context"
	"time"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/encoding"
	"svw.info/bottlesort/internal/ports"
)

// timeCheckInterval bounds how often the wall clock is consulted; the check
// is cheap but not free at BFS expansion rates.
const timeCheckInterval = 256

type bfsNode struct {
	state  *domain.PuzzleState
	parent *bfsNode
	move   domain.Move
	depth  int
}

// search runs a breadth-first traversal of the move graph from root. All
// edges cost one move, so the first dequeued winning state is at optimal
// depth. Enumeration order is fixed (ascending source, then target), which
// makes both the depth and the reconstructed path deterministic.
//
// The returned depth is UnknownOptimal when the node or time budget runs out
// first, or when the reachable space is exhausted without a win. keepPath
// controls whether parent back-pointers are retained for reconstruction.
func search(ctx context.Context, root *domain.PuzzleState, b ports.Budget, allowSink, keepPath bool) (domain.SolverResult, int, error) {
	start := time.Now()
	deadline := start.Add(b.MaxTime)

	rootNode := &bfsNode{state: root.Clone()}
	visited := make(map[string]struct{}, 1024)
	visited[encoding.Key(root)] = struct{}{}
	nodes := 1

	queue := []*bfsNode{rootNode}
	dequeued := 0
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		dequeued++
		if dequeued%timeCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return unknown(), nodes, err
			}
			if time.Now().After(deadline) {
				return unknown(), nodes, nil
			}
		}
		if cur.state.IsWin() {
			return domain.SolverResult{
				OptimalMoves: cur.depth,
				Path:         reconstruct(cur, keepPath),
			}, nodes, nil
		}
		for _, m := range cur.state.LegalMoves(allowSink) {
			next, err := cur.state.Apply(m)
			if err != nil {
				return unknown(), nodes, err
			}
			key := encoding.Key(next)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			nodes++
			if nodes > b.MaxNodes {
				return unknown(), nodes, nil
			}
			child := &bfsNode{state: next, move: m, depth: cur.depth + 1}
			if keepPath {
				child.parent = cur
			}
			queue = append(queue, child)
		}
		// Allow the backing array to release expanded prefixes.
		queue[head] = nil
	}
	return unknown(), nodes, nil
}

// countWins continues the traversal past the first win, counting distinct
// winning states no deeper than maxDepth. Winning nodes are not expanded.
func countWins(ctx context.Context, root *domain.PuzzleState, b ports.Budget, maxDepth, limit int) (int, int, error) {
	start := time.Now()
	deadline := start.Add(b.MaxTime)

	visited := make(map[string]struct{}, 1024)
	visited[encoding.Key(root)] = struct{}{}
	nodes := 1
	wins := 0

	queue := []*bfsNode{{state: root.Clone()}}
	dequeued := 0
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		dequeued++
		if dequeued%timeCheckInterval == 0 {
			if ctx.Err() != nil || time.Now().After(deadline) {
				return wins, nodes, ctx.Err()
			}
		}
		if cur.depth > maxDepth {
			break
		}
		if cur.state.IsWin() {
			wins++
			if wins >= limit {
				return wins, nodes, nil
			}
			continue
		}
		for _, m := range cur.state.LegalMoves(true) {
			next, err := cur.state.Apply(m)
			if err != nil {
				return wins, nodes, err
			}
			key := encoding.Key(next)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			nodes++
			if nodes > b.MaxNodes {
				return wins, nodes, nil
			}
			queue = append(queue, &bfsNode{state: next, depth: cur.depth + 1})
		}
		queue[head] = nil
	}
	return wins, nodes, nil
}

func reconstruct(win *bfsNode, keepPath bool) []domain.Move {
	if !keepPath {
		return nil
	}
	path := make([]domain.Move, 0, win.depth)
	for n := win; n.parent != nil; n = n.parent {
		path = append(path, n.move)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func unknown() domain.SolverResult {
	return domain.SolverResult{OptimalMoves: domain.UnknownOptimal}
}

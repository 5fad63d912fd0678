package search

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
	"github.com/corvidae/boxmate/pkg/transposition"
)

// ErrNoLegalMoves is returned by SearchRoot when the position has no legal
// moves: the caller (pkg/player) is expected to report game-over rather
// than retry.
var ErrNoLegalMoves = errors.New("search: no legal moves")

// rootResult is one root move's score and continuation from a completed
// iteration, kept around so the next iteration can order by score and so
// the best path can be reported per root move.
type rootResult struct {
	move board.Move
	pv   []board.Move
	s    eval.Score
}

// SearchRoot drives iterative deepening from b's current position: depth 1,
// 2, ... until budget is exhausted, a forced mate is found, or the depth
// limit is reached. It mutates b via push/pop but always returns it to its
// original position. Randomize, if true, shuffles the root move order once
// before the first iteration, per spec's "randomised search" mode.
func SearchRoot(ctx context.Context, b *board.Board, tt *transposition.Table, g *eval.Gene, budget Budget, randomize bool, rng *rand.Rand, obs Observer) (board.Move, PV, error) {
	root := b.LegalMoves()
	if root.Len() == 0 {
		return board.Move{}, PV{}, ErrNoLegalMoves
	}
	if randomize {
		root.Shuffle(rng)
	}

	e := eval.New(g)
	var leaf eval.Evaluator = e
	if limit := g.Get(eval.GNoiseLimitMillipawns); limit > 0 && rng != nil {
		leaf = eval.Noisy{Base: e, Noise: eval.NewRandom(g, rng)}
	}
	tt.NewGeneration()

	order := root.Slice()
	var lastPV PV
	var lastMove board.Move
	haveResult := false

	depthLimit := budget.DepthLimit
	if depthLimit <= 0 || depthLimit > MaxPly {
		depthLimit = MaxPly
	}

	var deadline time.Time
	hasDeadline := budget.TimeLimit > 0
	if hasDeadline {
		deadline = time.Now().Add(budget.TimeLimit)
	}
	var nodesSoFar uint64
	prevScore := eval.Score(0)
	haveScore := false
	oopsUsed := false

	for depth := 1; depth <= depthLimit; depth++ {
		remaining := remainingNodeBudget(budget.NodeLimit, nodesSoFar)
		move, pv, nextOrder, stats, ok := runRootIteration(ctx, b, tt, e, leaf, g, deadline, hasDeadline, remaining, order, depth)
		if !ok {
			break // keep the last fully completed iteration's result
		}

		nodesSoFar += pv.Nodes
		order = nextOrder
		lastPV = pv
		lastMove = move
		haveResult = true
		if obs != nil {
			obs.Observe(b, pv, stats)
		}

		// Oops mode: a sudden score drop between iterations usually means the
		// position just revealed a tactic the previous, shallower iteration
		// missed. Grant the search one deadline extension so it has a chance
		// to see the refutation through, rather than reporting the stale,
		// now-unsound best move just because the clock ran out.
		if hasDeadline && !oopsUsed && haveScore {
			if extension := oopsModeExtension(prevScore, pv.Score, g, budget.TimeLimit); extension > 0 {
				deadline = deadline.Add(extension)
				oopsUsed = true
			}
		}
		prevScore = pv.Score
		haveScore = true

		if _, ok := mateDistance(pv.Score, g); ok {
			break
		}
	}

	if !haveResult {
		// Every iteration aborted before completing depth 1 (an extremely
		// tight budget): fall back to the (possibly shuffled) root order.
		return order[0], PV{Depth: 0, Moves: []board.Move{order[0]}}, nil
	}
	return lastMove, lastPV, nil
}

// oopsModeExtension returns how much longer the search's deadline should be
// pushed out given the score drop from prev to cur, or 0 if oops mode
// doesn't trigger: GOopsModeMargin is the minimum drop (in the evaluator's
// units) that counts as a surprise, and GOopsModeExtensionPercent scales the
// original time budget to produce the extension.
func oopsModeExtension(prev, cur eval.Score, g *eval.Gene, timeLimit time.Duration) time.Duration {
	margin := eval.Score(g.Get(eval.GOopsModeMargin))
	if margin <= 0 || prev-cur < margin {
		return 0
	}
	return timeLimit * time.Duration(g.Get(eval.GOopsModeExtensionPercent)) / 100
}

// remainingNodeBudget returns how many nodes are left of a total limit
// after spent have already been visited (0 limit means unlimited).
func remainingNodeBudget(limit, spent uint64) uint64 {
	if limit == 0 {
		return 0
	}
	if spent >= limit {
		return 1 // force an immediate abort rather than silently lifting the cap
	}
	return limit - spent
}

// runRootIteration runs one full-width root search at depth and reports
// whether it completed (false means the budget was exhausted mid-iteration
// and the caller should keep the prior result).
func runRootIteration(ctx context.Context, b *board.Board, tt *transposition.Table, e eval.Eval, leaf eval.Evaluator, g *eval.Gene, deadline time.Time, hasDeadline bool, nodeLimit uint64, order []board.Move, depth int) (board.Move, PV, []board.Move, *Stats, bool) {
	start := time.Now()
	stats := &Stats{}
	run := newRunAlphaBeta(e, leaf, tt, stats, deadline, hasDeadline, nodeLimit)

	results := make([]rootResult, 0, len(order))
	alpha, beta := eval.NegInf, eval.Inf
	var bestMove board.Move
	bestFound := false

	for _, m := range order {
		if !b.PushMove(m) {
			continue
		}
		s, rem := run.search(ctx, b, depth-1, -beta, -alpha, 1)
		s = incrementMateDistance(-s, g)
		b.PopMove()

		if run.aborted {
			break
		}

		results = append(results, rootResult{move: m, pv: append([]board.Move{m}, rem...), s: s})
		if s > alpha || !bestFound {
			alpha = s
			bestMove = m
			bestFound = true
		}
	}

	if run.aborted || !bestFound {
		return board.Move{}, PV{}, order, stats, false
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].s > results[j].s })
	nextOrder := make([]board.Move, 0, len(results))
	for _, r := range results {
		nextOrder = append(nextOrder, r.move)
	}

	pv := PV{Depth: depth, Score: alpha, Nodes: run.nodes, Time: time.Since(start)}
	for _, r := range results {
		if r.move.Equals(bestMove) {
			pv.Moves = r.pv
			break
		}
	}

	return bestMove, pv, nextOrder, stats, true
}

package search

import (
	"context"
	"time"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
	"github.com/corvidae/boxmate/pkg/transposition"
)

// abortCheckInterval is how often (in visited nodes) the budget is checked,
// per spec's "check time/node budget every N nodes (N ~= 4096)."
const abortCheckInterval = 4096

// runAlphaBeta carries the state of one SearchRoot call: the transposition
// table, move-ordering tables, evaluator, budget and node/abort bookkeeping.
// Not safe for concurrent reuse across searches.
type runAlphaBeta struct {
	e     eval.Eval // concrete evaluator, used for move ordering (CaptureGain)
	leaf  eval.Evaluator // evaluator passed down to quiescence's stand-pat score
	gene  *eval.Gene
	tt    *transposition.Table
	order *ordering
	stats *Stats

	deadline    time.Time
	hasDeadline bool
	nodeLimit   uint64 // remaining nodes allowed for the whole SearchRoot call, not just this iteration

	nodes   uint64
	aborted bool
}

// newRunAlphaBeta starts a fresh iteration against a budget shared across
// the whole iterative-deepening call: deadline is the absolute time the
// search must stop by (computed once, before the first iteration) and
// nodeLimit is however many nodes remain of the total node budget. leaf is
// the evaluator used at quiescence's horizon; it is usually e itself, but
// may be an eval.Noisy wrapping e when GNoiseLimitMillipawns is nonzero.
func newRunAlphaBeta(e eval.Eval, leaf eval.Evaluator, tt *transposition.Table, stats *Stats, deadline time.Time, hasDeadline bool, nodeLimit uint64) *runAlphaBeta {
	return &runAlphaBeta{e: e, leaf: leaf, gene: e.Gene, tt: tt, order: newOrdering(e), stats: stats, deadline: deadline, hasDeadline: hasDeadline, nodeLimit: nodeLimit}
}

// checkBudget is called every abortCheckInterval nodes; it is the only
// place the cooperative abort flag is set.
func (r *runAlphaBeta) checkBudget(ctx context.Context) {
	if ctx.Err() != nil {
		r.aborted = true
		return
	}
	if r.hasDeadline && time.Now().After(r.deadline) {
		r.aborted = true
		return
	}
	if r.nodeLimit > 0 && r.nodes >= r.nodeLimit {
		r.aborted = true
	}
}

// search is the internal negamax node, returning the score from b.Turn()'s
// perspective and, for the PV line, the continuation below this node.
func (r *runAlphaBeta) search(ctx context.Context, b *board.Board, depth int, alpha, beta eval.Score, ply int) (eval.Score, []board.Move) {
	if r.aborted {
		return 0, nil
	}
	r.nodes++
	if r.nodes%abortCheckInterval == 0 {
		r.checkBudget(ctx)
		if r.aborted {
			return 0, nil
		}
	}
	r.stats.recordVisit(ply)

	if b.IsDefiniteDraw() {
		return 0, nil
	}

	mover := b.Turn()
	hash := b.Hash()

	ttMove, hasTTMove := board.Move{}, false
	if entry, ok := r.tt.Lookup(mover, hash); ok {
		ttMove, hasTTMove = entry.Move, true
		if entry.Depth >= depth {
			switch entry.Bound {
			case transposition.Exact:
				return entry.Score, nil
			case transposition.Lower:
				if entry.Score >= beta {
					return entry.Score, nil
				}
			case transposition.Upper:
				if entry.Score <= alpha {
					return entry.Score, nil
				}
			}
		}
	}

	if depth <= 0 {
		q := &runQuiescence{e: r.e, leaf: r.leaf, gene: r.gene, stats: r.stats}
		score := q.search(ctx, b, alpha, beta, ply, int(r.gene.Get(eval.GMaxCheckDepth)))
		before := r.nodes
		r.nodes += q.nodes
		if r.nodes/abortCheckInterval != before/abortCheckInterval {
			r.checkBudget(ctx)
		}
		r.tt.Store(mover, hash, 0, ply, board.Move{}, score, transposition.Exact)
		return score, nil
	}

	pseudo := board.GenerateMoves(b.Position(), mover)
	r.stats.recordGenerate(ply)
	moves := r.order.orderMoves(pseudo, ply, ttMove, hasTTMove)

	origAlpha := alpha
	var pv []board.Move
	hasLegalMove := false

	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}
		hasLegalMove = true

		childDepth := depth - 1
		if b.Position().IsChecked(b.Turn()) {
			childDepth += int(r.gene.Get(eval.GCheckExtensionPlies))
		}

		score, rem := r.search(ctx, b, childDepth, -beta, -alpha, ply+1)
		score = incrementMateDistance(-score, r.gene)
		b.PopMove()

		if r.aborted {
			return 0, nil
		}

		if score > alpha {
			alpha = score
			pv = append([]board.Move{m}, rem...)
		}
		if alpha >= beta {
			r.order.recordKiller(ply, m)
			r.order.recordHistory(m, depth)
			r.tt.Store(mover, hash, depth, ply, m, alpha, transposition.Lower)
			return alpha, nil
		}
	}

	if !hasLegalMove {
		if b.Position().IsChecked(mover) {
			return -eval.Win, nil // checkmate: shrunk toward zero as this unwinds up the tree
		}
		return 0, nil
	}

	bound := transposition.Exact
	if alpha <= origAlpha {
		bound = transposition.Upper
	}
	best := board.Move{}
	if len(pv) > 0 {
		best = pv[0]
	}
	r.tt.Store(mover, hash, depth, ply, best, alpha, bound)
	return alpha, pv
}

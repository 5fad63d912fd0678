package search

import (
	"context"
	"sort"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
)

// runQuiescence extends a full-width search past its horizon through
// captures and, for a bounded number of plies, check-giving quiet moves, so
// the static evaluation at the horizon isn't fooled by a move in the middle
// of a tactical exchange.
type runQuiescence struct {
	e     eval.Eval // concrete evaluator, used for CaptureGain move ordering
	leaf  eval.Evaluator // evaluator used for the stand-pat score, may add GNoiseLimitMillipawns jitter
	gene  *eval.Gene
	stats *Stats
	nodes uint64
}

// search returns the score from b.Turn()'s perspective. checkDepth is the
// remaining budget (plies) for exploring non-capture check-giving moves,
// per spec's "up to maxCheckDepth from the horizon." Every pseudo-legal
// move is pushed to confirm legality, so a checkmate or stalemate reached
// exactly at the quiescence horizon is still detected rather than masked by
// the stand-pat cutoff below.
func (r *runQuiescence) search(ctx context.Context, b *board.Board, alpha, beta eval.Score, ply, checkDepth int) eval.Score {
	if ctx.Err() != nil {
		return 0
	}
	if b.IsDefiniteDraw() {
		return 0
	}

	r.nodes++
	r.stats.recordVisit(ply)
	r.stats.recordEval(ply)

	standPat := eval.Unit(b.Turn()) * r.leaf.Evaluate(ctx, b)
	alpha = eval.Max(alpha, standPat)

	pos := b.Position()
	pseudo := board.GenerateMoves(pos, b.Turn())
	r.stats.recordGenerate(ply)

	moves := pseudo.Slice()
	sort.SliceStable(moves, func(i, j int) bool {
		return r.e.CaptureGain(moves[i]) > r.e.CaptureGain(moves[j])
	})

	hasLegalMove := false
	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}
		hasLegalMove = true

		quiet := !m.IsCapture() && !m.IsPromotion()
		gaveCheck := quiet && checkDepth > 0 && b.Position().IsChecked(b.Turn())
		if !quiet || gaveCheck {
			nextCheckDepth := checkDepth
			if quiet {
				nextCheckDepth--
			}
			score := -r.search(ctx, b, -beta, -alpha, ply+1, nextCheckDepth)
			score = incrementMateDistance(score, r.gene)
			if score > alpha {
				alpha = score
			}
		}
		b.PopMove()

		if alpha >= beta {
			break
		}
	}

	if !hasLegalMove {
		if b.Position().IsChecked(b.Turn()) {
			return -eval.Win
		}
		return 0
	}
	return alpha
}

package search

import (
	"sort"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
)

// killerSlots is the number of killer moves remembered per ply -- two is the
// standard choice, enough to catch both a primary and a secondary quiet
// refutation without crowding out other ordering.
const killerSlots = 2

// ordering holds the killer-move and history-heuristic tables a search run
// accumulates move-ordering hints in, and the Eval used for MVV/LVA capture
// scoring. One ordering is owned per root search, not shared across
// concurrent searches.
type ordering struct {
	eval    eval.Eval
	killers [MaxPly + 1][killerSlots]board.Move
	history [board.NumCells][board.NumCells]int32
}

func newOrdering(e eval.Eval) *ordering {
	return &ordering{eval: e}
}

// recordKiller remembers a quiet move that caused a beta cutoff at ply, so
// later siblings at the same ply try it early.
func (o *ordering) recordKiller(ply int, m board.Move) {
	if m.IsCapture() || ply < 0 || ply > MaxPly {
		return
	}
	if o.killers[ply][0].Equals(m) {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

// recordHistory bumps the history-heuristic counter for a quiet move that
// caused a cutoff, weighted by depth so deep cutoffs count for more.
func (o *ordering) recordHistory(m board.Move, depth int) {
	if m.IsCapture() {
		return
	}
	o.history[m.From][m.To] += int32(depth * depth)
}

// isKiller reports whether m is one of ply's remembered killer moves.
func (o *ordering) isKiller(ply int, m board.Move) bool {
	if ply < 0 || ply > MaxPly {
		return false
	}
	return o.killers[ply][0].Equals(m) || o.killers[ply][1].Equals(m)
}

// rank buckets, highest priority first: transposition best move, captures by
// MVV/LVA, killer moves, moves with positive history, everything else.
const (
	rankTTMove = iota
	rankCapture
	rankKiller
	rankHistory
	rankOther
)

// orderMoves sorts list in place per spec's ordering: transposition best
// move first, then captures by MVV/LVA, then killers at this ply, then
// moves with a positive history counter (highest first), then the rest in
// generation order.
func (o *ordering) orderMoves(list board.MoveList, ply int, ttMove board.Move, hasTTMove bool) []board.Move {
	moves := list.Slice()

	rank := func(m board.Move) (int, int32) {
		if hasTTMove && m.Equals(ttMove) {
			return rankTTMove, 0
		}
		if m.IsCapture() {
			// Most valuable victim first, then least valuable attacker.
			return rankCapture, -int32(o.eval.CaptureGain(m))*128 + int32(board.NominalValue(m.Piece.Kind()))
		}
		if o.isKiller(ply, m) {
			return rankKiller, 0
		}
		if h := o.history[m.From][m.To]; h > 0 {
			return rankHistory, -h
		}
		return rankOther, 0
	}

	sort.SliceStable(moves, func(i, j int) bool {
		ri, si := rank(moves[i])
		rj, sj := rank(moves[j])
		if ri != rj {
			return ri < rj
		}
		return si < sj
	})
	return moves
}

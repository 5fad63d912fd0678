package endgame

import (
	"context"
	"fmt"

	"github.com/corvidae/boxmate/pkg/board"
)

// posKey identifies one generation-time position: the lone king's square,
// the winning side's king square, its extra piece's square, and whether
// the winning side is the one to move.
type posKey struct {
	losingKing, winningKing, extra int
	winningToMove                  bool
}

type childSquares struct{ lk, wk, ex int }

// Generate builds a forced-win table for king+extra vs lone king by
// retrograde analysis: starting from every checkmate, it repeatedly
// propagates "mate in d" backward to every position one ply earlier whose
// value that ply resolves, until a full pass makes no further progress.
// Supported extras are the pieces needing no rank-restricted symmetry:
// queen, rook, bishop, knight. (A pawn needs a different, rank-restricted
// symmetry and generation and is not supported here.)
func Generate(ctx context.Context, extra board.Kind) (*Table, error) {
	if extra == board.Pawn || extra == board.King {
		return nil, fmt.Errorf("endgame: unsupported extra piece %v", extra)
	}

	zt := board.NewZobristTable(1)

	type cand struct{ lk, wk, ex int }
	var all []cand
	for lk := 0; lk < boardSquares; lk++ {
		for wk := 0; wk < boardSquares; wk++ {
			if wk == lk || adjacent(wk, lk) {
				continue
			}
			for ex := 0; ex < boardSquares; ex++ {
				if ex == lk || ex == wk {
					continue
				}
				all = append(all, cand{lk, wk, ex})
			}
		}
	}

	win := map[posKey]int{}  // winning side to move: plies to mate, once resolved
	loss := map[posKey]int{} // losing side to move: plies to mate, once resolved

	// Base case: a losing-to-move position that is already checkmate is a
	// 0-ply loss for the side to move.
	for _, c := range all {
		b, ok := buildBoard(zt, c.lk, c.wk, c.ex, extra, false)
		if !ok {
			continue
		}
		if b.Result() == winnerOf() {
			loss[posKey{c.lk, c.wk, c.ex, false}] = 0
		}
	}

	for changed := true; changed; {
		changed = false
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, c := range all {
			wKey := posKey{c.lk, c.wk, c.ex, true}
			if _, done := win[wKey]; !done {
				if d, ok := resolveWinningToMove(zt, c.lk, c.wk, c.ex, extra, loss); ok {
					win[wKey] = d
					changed = true
				}
			}

			lKey := posKey{c.lk, c.wk, c.ex, false}
			if _, done := loss[lKey]; !done {
				if d, ok := resolveLosingToMove(zt, c.lk, c.wk, c.ex, extra, win); ok {
					loss[lKey] = d
					changed = true
				}
			}
		}
	}

	return compile(win, loss, extra), nil
}

// resolveWinningToMove returns 1+min(loss[child]) over the winning side's
// legal moves whose child is already a known forced loss for the
// opponent -- the standard retrograde minimization -- or reports false if
// none of its children are known yet.
func resolveWinningToMove(zt *board.ZobristTable, lk, wk, ex int, extra board.Kind, loss map[posKey]int) (int, bool) {
	b, ok := buildBoard(zt, lk, wk, ex, extra, true)
	if !ok {
		return 0, false
	}

	best := -1
	for _, m := range b.LegalMoves().Slice() {
		if !b.PushMove(m) {
			continue
		}
		child := childOf(b, extra)
		b.PopMove()

		if d, known := loss[posKey{child.lk, child.wk, child.ex, false}]; known {
			if best == -1 || d+1 < best {
				best = d + 1
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// resolveLosingToMove returns 1+max(win[child]) over the losing side's
// legal moves, but only once every one of them is a known forced win for
// the opponent: the defender escapes through any move whose outcome isn't
// yet known to be lost, so the position's value is undefined until every
// option is exhausted.
func resolveLosingToMove(zt *board.ZobristTable, lk, wk, ex int, extra board.Kind, win map[posKey]int) (int, bool) {
	b, ok := buildBoard(zt, lk, wk, ex, extra, false)
	if !ok {
		return 0, false
	}
	if b.GameIsOver() {
		return 0, false // already a base-case checkmate, or a draw/stalemate: never a forced loss
	}

	worst := -1
	for _, m := range b.LegalMoves().Slice() {
		if !b.PushMove(m) {
			continue
		}
		child := childOf(b, extra)
		b.PopMove()

		d, known := win[posKey{child.lk, child.wk, child.ex, true}]
		if !known {
			return 0, false
		}
		if d > worst {
			worst = d
		}
	}
	if worst == -1 {
		return 0, false
	}
	return worst + 1, true
}

// childOf reads off the three pieces' squares after a move has been
// pushed, in the fixed winning-side-is-White convention buildBoard uses.
func childOf(b *board.Board, extra board.Kind) childSquares {
	pos := b.Position()

	var c childSquares
	for o := board.Offset(0); int(o) < board.NumCells; o++ {
		if !o.IsOnBoard() {
			continue
		}
		p, ok := pos.Square(o)
		if !ok {
			continue
		}
		switch {
		case p == board.NewPiece(board.White, board.King):
			c.wk = sq(o)
		case p == board.NewPiece(board.White, extra):
			c.ex = sq(o)
		case p == board.NewPiece(board.Black, board.King):
			c.lk = sq(o)
		}
	}
	return c
}

// buildBoard places White's king and extra piece and Black's lone king --
// Generate always makes White the winning side, since both kings are
// otherwise symmetric -- and reports false if the placement cannot be a
// legal chess position: the kings-adjacent case is filtered by the caller,
// and this additionally rejects a position where the side not to move is
// left in check, which cannot arise from legal play.
func buildBoard(zt *board.ZobristTable, losingKingSq, winningKingSq, extraSq int, extra board.Kind, winningToMove bool) (*board.Board, bool) {
	placements := []board.Placement{
		{Offset: offsetOf(winningKingSq), Piece: board.NewPiece(board.White, board.King)},
		{Offset: offsetOf(extraSq), Piece: board.NewPiece(board.White, extra)},
		{Offset: offsetOf(losingKingSq), Piece: board.NewPiece(board.Black, board.King)},
	}
	pos, err := board.NewPosition(placements, board.Castling(0), board.NullOffset, board.White) // epColor is unused when ep == NullOffset
	if err != nil {
		return nil, false
	}

	turn := board.Black
	if winningToMove {
		turn = board.White
	}
	if pos.IsChecked(turn.Opponent()) {
		return nil, false // not reachable by legal play
	}

	return board.NewEditedBoard(zt, pos, turn, 1, 0, ""), true
}

func winnerOf() board.Result { return board.WhiteWins }

// compile converts the resolved winning-to-move distances into the
// persisted Table, keeping one entry per canonical-symmetry equivalence
// class and recovering an actual recommended move (not just a distance)
// for each by replaying the winning side's moves and matching the one
// whose child carries the one-ply-shorter loss value.
func compile(win, loss map[posKey]int, extra board.Kind) *Table {
	t := &Table{Extra: extra, entries: map[int]Entry{}}

	zt := board.NewZobristTable(1)
	for k, d := range win {
		if d > 255 {
			continue // cannot be represented in the 8-bit plies field; never reached for K+Q/K+R
		}
		idx, sym := canonicalize(k.losingKing, k.winningKing, k.extra)
		if _, exists := t.entries[idx]; exists {
			continue
		}

		movesKing, dest, ok := bestMove(zt, k, extra, d, loss)
		if !ok {
			continue
		}
		t.entries[idx] = Entry{
			PliesToMate: uint8(d),
			MovesKing:   movesKing,
			Dest:        symmetry(sym, dest),
		}
	}
	return t
}

// bestMove replays the winning side's legal moves from k and returns the
// one whose resulting position carries exactly d-1 in loss, i.e. the move
// Generate's fixed point actually credited with the stored mate distance.
func bestMove(zt *board.ZobristTable, k posKey, extra board.Kind, d int, loss map[posKey]int) (movesKing bool, dest int, ok bool) {
	b, built := buildBoard(zt, k.losingKing, k.winningKing, k.extra, extra, true)
	if !built {
		return false, 0, false
	}

	for _, m := range b.LegalMoves().Slice() {
		if !b.PushMove(m) {
			continue
		}
		child := childOf(b, extra)
		b.PopMove()

		if cd, known := loss[posKey{child.lk, child.wk, child.ex, false}]; known && cd+1 == d {
			return m.Piece.Kind() == board.King, sq(m.To), true
		}
	}
	return false, 0, false
}

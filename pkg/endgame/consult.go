package endgame

import (
	"github.com/corvidae/boxmate/pkg/board"
)

// Consult looks up b in t and, if the side to move holds a known forced
// win, returns the recommended move and the remaining plies to mate. It
// reports false if b isn't a king-plus-one-extra-piece-vs-lone-king
// ending for t's extra kind, or if the position isn't yet resolved.
func Consult(t *Table, b *board.Board) (board.Move, int, bool) {
	if t == nil {
		return board.Move{}, 0, false
	}

	winner := b.Turn()
	loser := winner.Opponent()

	var winningKing, extraSq board.Offset
	var haveKing, haveExtra bool
	var losingKing board.Offset
	var haveLosingKing bool
	extraCount, loserPieceCount := 0, 0

	pos := b.Position()
	for o := board.Offset(0); int(o) < board.NumCells; o++ {
		if !o.IsOnBoard() {
			continue
		}
		p, ok := pos.Square(o)
		if !ok {
			continue
		}
		switch {
		case p.Color() == winner && p.Kind() == board.King:
			winningKing, haveKing = o, true
		case p.Color() == winner && p.Kind() == t.Extra:
			extraSq, haveExtra = o, true
			extraCount++
		case p.Color() == winner:
			extraCount++ // any other winning-side piece disqualifies this as a K+extra-vs-K ending
		case p.Color() == loser && p.Kind() == board.King:
			losingKing, haveLosingKing = o, true
		case p.Color() == loser:
			loserPieceCount++
		}
	}

	if !haveKing || !haveExtra || !haveLosingKing || extraCount != 1 || loserPieceCount != 0 {
		return board.Move{}, 0, false
	}

	lk, wk, ex := sq(losingKing), sq(winningKing), sq(extraSq)
	idx, sym := canonicalize(lk, wk, ex)
	entry, ok := t.entries[idx]
	if !ok || entry.PliesToMate == 0 {
		return board.Move{}, 0, false
	}

	realDest := offsetOf(symmetry(inverseSymmetry(sym), entry.Dest))
	for _, m := range b.LegalMoves().Slice() {
		isKingMove := m.Piece.Kind() == board.King
		if isKingMove != entry.MovesKing {
			continue
		}
		if m.To == realDest {
			return m, int(entry.PliesToMate), true
		}
	}
	return board.Move{}, 0, false
}

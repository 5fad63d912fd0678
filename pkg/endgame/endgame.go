// Package endgame implements a small endgame tablebase: symmetry-reduced
// retrograde-generated forced-win data for king-plus-one-piece vs lone-king
// endings, consulted by a Player before falling back to full search.
package endgame

import (
	"fmt"

	"github.com/corvidae/boxmate/pkg/board"
)

// boardSquares is the 0..63 square index space used for canonical indexing,
// distinct from board.Offset's 144-square mailbox.
const boardSquares = 64

// Entry is a forced-win record for a winning-to-move canonical position:
// the plies remaining to mate with best play, and which of the winning
// side's two pieces (king or its one extra piece) makes the recommended
// move, and to where. A zero Entry (PliesToMate == 0) means no forced win
// is known for that position -- the caller should fall back to search.
type Entry struct {
	PliesToMate uint8
	MovesKing   bool
	Dest        int // 0..63, in the canonical symmetry frame
}

// Table holds the forced-win entries for one piece set (a king, the
// opponent's lone king, and one extra piece of a fixed kind), indexed by
// canonical position index.
type Table struct {
	Extra   board.Kind
	entries map[int]Entry
}

// FileName is the on-disk name spec.md derives from a piece set, e.g. a
// lone extra queen is "wq.egm".
func (t *Table) FileName() string {
	return fmt.Sprintf("w%c.egm", kindLetter(t.Extra))
}

// NewTable returns an empty table for extra, ready for Set. Generate and
// Load are the usual ways to populate one; NewTable exists for callers
// (tests, or a hand-curated endgame) that need to insert entries directly.
func NewTable(extra board.Kind) *Table {
	return &Table{Extra: extra, entries: map[int]Entry{}}
}

// Set records a forced win for the position with the losing king,
// winning king, and extra piece at the given squares: movesKing and dest
// describe the winning side's recommended move, and pliesToMate the
// distance to mate with best play. It stores the entry in whichever
// symmetry frame is canonical for that position, the same frame Consult
// expects.
func (t *Table) Set(losingKing, winningKing, extraSquare board.Offset, movesKing bool, dest board.Offset, pliesToMate int) {
	lk, wk, ex := sq(losingKing), sq(winningKing), sq(extraSquare)
	idx, sym := canonicalize(lk, wk, ex)
	t.entries[idx] = Entry{
		PliesToMate: uint8(pliesToMate),
		MovesKing:   movesKing,
		Dest:        symmetry(sym, sq(dest)),
	}
}

func kindLetter(k board.Kind) byte {
	switch k {
	case board.Queen:
		return 'q'
	case board.Rook:
		return 'r'
	case board.Bishop:
		return 'b'
	case board.Knight:
		return 'n'
	case board.Pawn:
		return 'p'
	default:
		return '?'
	}
}

func sq(o board.Offset) int { return int(o.Rank())*8 + int(o.File()) }

func offsetOf(sq int) board.Offset { return board.NewOffset(board.File(sq%8), board.Rank(sq/8)) }

func adjacent(a, b int) bool {
	ax, ay := a%8, a/8
	bx, by := b%8, b/8
	dx, dy := ax-bx, ay-by
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1
}

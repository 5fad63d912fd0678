package endgame

import (
	"testing"

	"github.com/corvidae/boxmate/pkg/board"
)

func mustOffset(t *testing.T, s string) board.Offset {
	t.Helper()
	o, err := board.ParseOffsetStr(s)
	if err != nil {
		t.Fatalf("ParseOffsetStr(%q): %v", s, err)
	}
	return o
}

// buildKRKBoard places a White king and rook plus a lone Black king, White
// to move, with no other pieces involved.
func buildKRKBoard(t *testing.T, whiteKing, rook, blackKing string) *board.Board {
	t.Helper()
	placements := []board.Placement{
		{Offset: mustOffset(t, whiteKing), Piece: board.NewPiece(board.White, board.King)},
		{Offset: mustOffset(t, rook), Piece: board.NewPiece(board.White, board.Rook)},
		{Offset: mustOffset(t, blackKing), Piece: board.NewPiece(board.Black, board.King)},
	}
	pos, err := board.NewPosition(placements, board.Castling(0), board.NullOffset, board.White)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if pos.IsChecked(board.White) {
		t.Fatal("test position has White in check, fix the squares")
	}
	return board.NewEditedBoard(board.NewZobristTable(1), pos, board.White, 1, 0, "")
}

func TestConsultFindsStoredMove(t *testing.T) {
	b := buildKRKBoard(t, "e1", "a1", "e8")

	lk := sq(mustOffset(t, "e8"))
	wk := sq(mustOffset(t, "e1"))
	ex := sq(mustOffset(t, "a1"))
	idx, sym := canonicalize(lk, wk, ex)

	dest := sq(mustOffset(t, "a4"))
	tbl := &Table{
		Extra: board.Rook,
		entries: map[int]Entry{
			idx: {PliesToMate: 5, MovesKing: false, Dest: symmetry(sym, dest)},
		},
	}

	move, plies, ok := Consult(tbl, b)
	if !ok {
		t.Fatal("Consult did not find the stored entry")
	}
	if plies != 5 {
		t.Fatalf("plies = %d, want 5", plies)
	}
	if move.Piece.Kind() != board.Rook {
		t.Fatalf("expected the rook to move, got %v", move.Piece.Kind())
	}
	if move.To != mustOffset(t, "a4") {
		t.Fatalf("move.To = %v, want a4", move.To)
	}
}

func TestConsultMissingEntryReturnsFalse(t *testing.T) {
	b := buildKRKBoard(t, "e1", "a1", "e8")
	tbl := &Table{Extra: board.Rook, entries: map[int]Entry{}}

	_, _, ok := Consult(tbl, b)
	if ok {
		t.Fatal("Consult should report false with no matching entry")
	}
}

func TestConsultWrongExtraCountReturnsFalse(t *testing.T) {
	placements := []board.Placement{
		{Offset: mustOffset(t, "e1"), Piece: board.NewPiece(board.White, board.King)},
		{Offset: mustOffset(t, "a1"), Piece: board.NewPiece(board.White, board.Rook)},
		{Offset: mustOffset(t, "a2"), Piece: board.NewPiece(board.White, board.Pawn)},
		{Offset: mustOffset(t, "e8"), Piece: board.NewPiece(board.Black, board.King)},
	}
	pos, err := board.NewPosition(placements, board.Castling(0), board.NullOffset, board.White)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	b := board.NewEditedBoard(board.NewZobristTable(1), pos, board.White, 1, 0, "")

	tbl := &Table{Extra: board.Rook, entries: map[int]Entry{}}
	_, _, ok := Consult(tbl, b)
	if ok {
		t.Fatal("Consult should refuse a position with an extra pawn on the board")
	}
}

package player_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/book"
	"github.com/corvidae/boxmate/pkg/endgame"
	"github.com/corvidae/boxmate/pkg/player"
	"github.com/corvidae/boxmate/pkg/search"
	"github.com/corvidae/boxmate/pkg/transposition"
)

func place(t *testing.T, sq string, p board.Piece) board.Placement {
	t.Helper()
	o, err := board.ParseOffsetStr(sq)
	require.NoError(t, err)
	return board.Placement{Offset: o, Piece: p}
}

func newPlayer(t *testing.T) *player.Player {
	t.Helper()
	return &player.Player{
		TT:     transposition.New(10),
		Budget: search.Budget{DepthLimit: 2},
	}
}

func TestSelectMovePrefersBookOverSearch(t *testing.T) {
	bk, err := book.Compile(strings.NewReader("e2e4\n"))
	require.NoError(t, err)

	p := newPlayer(t)
	p.Book = bk
	p.BookEnabled = true

	b := board.NewBoard(board.NewZobristTable(1))
	move, pv, src, err := p.SelectMove(context.Background(), b, nil)
	require.NoError(t, err)
	assert.Equal(t, player.FromBook, src)
	assert.Equal(t, 0, pv.Depth)

	want, _ := board.ParseOffsetStr("e2")
	assert.Equal(t, want, move.From)
}

func TestSelectMoveFallsThroughToSearchOutOfBook(t *testing.T) {
	bk, err := book.Compile(strings.NewReader("e2e4\n"))
	require.NoError(t, err)

	p := newPlayer(t)
	p.Book = bk
	p.BookEnabled = true

	b := board.NewBoard(board.NewZobristTable(1))
	require.True(t, b.PushMove(legalMove(t, b, "d2", "d4")))

	_, _, src, err := p.SelectMove(context.Background(), b, nil)
	require.NoError(t, err)
	assert.Equal(t, player.FromSearch, src)
}

func TestSelectMoveUsesEndgameTableOverSearch(t *testing.T) {
	placements := []board.Placement{
		place(t, "e1", board.NewPiece(board.White, board.King)),
		place(t, "a1", board.NewPiece(board.White, board.Rook)),
		place(t, "e8", board.NewPiece(board.Black, board.King)),
	}
	pos, err := board.NewPosition(placements, board.Castling(0), board.NullOffset, board.White)
	require.NoError(t, err)
	b := board.NewEditedBoard(board.NewZobristTable(1), pos, board.White, 1, 0, "")

	whiteKing, _ := board.ParseOffsetStr("e1")
	rookSq, _ := board.ParseOffsetStr("a1")
	blackKing, _ := board.ParseOffsetStr("e8")
	rookDest, _ := board.ParseOffsetStr("a8")

	tbl := endgame.NewTable(board.Rook)
	tbl.Set(blackKing, whiteKing, rookSq, false, rookDest, 3)

	p := newPlayer(t)
	p.Endgame = []*endgame.Table{tbl}

	move, pv, src, err := p.SelectMove(context.Background(), b, nil)
	require.NoError(t, err)
	assert.Equal(t, player.FromEndgame, src)
	assert.Equal(t, board.Rook, move.Piece.Kind())
	assert.Equal(t, rookDest, move.To)
	assert.Equal(t, 3, pv.Depth)
}

func TestSelectMoveReturnsErrNoMoveOnCheckmate(t *testing.T) {
	placements := []board.Placement{
		place(t, "g1", board.NewPiece(board.White, board.King)),
		place(t, "a8", board.NewPiece(board.White, board.Rook)),
		place(t, "h8", board.NewPiece(board.Black, board.King)),
		place(t, "g7", board.NewPiece(board.Black, board.Pawn)),
		place(t, "h7", board.NewPiece(board.Black, board.Pawn)),
	}
	pos, err := board.NewPosition(placements, board.Castling(0), board.NullOffset, board.White)
	require.NoError(t, err)
	b := board.NewEditedBoard(board.NewZobristTable(1), pos, board.Black, 1, 0, "")
	require.True(t, b.GameIsOver())

	p := newPlayer(t)
	_, _, _, err = p.SelectMove(context.Background(), b, nil)
	assert.ErrorIs(t, err, player.ErrNoMove)
}

type recordingObserver struct{ calls int }

func (o *recordingObserver) Observe(b *board.Board, pv search.PV, stats *search.Stats) {
	o.calls++
}

func TestSelectMoveNotifiesObserverDuringSearch(t *testing.T) {
	p := newPlayer(t)
	b := board.NewBoard(board.NewZobristTable(1))
	obs := &recordingObserver{}

	_, _, src, err := p.SelectMove(context.Background(), b, obs)
	require.NoError(t, err)
	assert.Equal(t, player.FromSearch, src)
	assert.Equal(t, 2, obs.calls)
}

func legalMove(t *testing.T, b *board.Board, from, to string) board.Move {
	t.Helper()
	f, err := board.ParseOffsetStr(from)
	require.NoError(t, err)
	tt, err := board.ParseOffsetStr(to)
	require.NoError(t, err)
	for _, m := range b.LegalMoves().Slice() {
		if m.From == f && m.To == tt {
			return m
		}
	}
	t.Fatalf("no legal move %s-%s", from, to)
	return board.Move{}
}

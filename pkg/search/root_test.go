package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
	"github.com/corvidae/boxmate/pkg/search"
	"github.com/corvidae/boxmate/pkg/transposition"
)

func place(t *testing.T, sq string, p board.Piece) board.Placement {
	t.Helper()
	o, err := board.ParseOffsetStr(sq)
	require.NoError(t, err)
	return board.Placement{Offset: o, Piece: p}
}

// buildBackRankMate sets up the textbook back-rank pattern: Black's king is
// boxed in by its own pawns, and Ra1-a8 delivers an unstoppable check along
// the open 8th rank.
func buildBackRankMate(t *testing.T) *board.Board {
	t.Helper()
	placements := []board.Placement{
		place(t, "g1", board.NewPiece(board.White, board.King)),
		place(t, "a1", board.NewPiece(board.White, board.Rook)),
		place(t, "h8", board.NewPiece(board.Black, board.King)),
		place(t, "g7", board.NewPiece(board.Black, board.Pawn)),
		place(t, "h7", board.NewPiece(board.Black, board.Pawn)),
	}
	pos, err := board.NewPosition(placements, board.Castling(0), board.NullOffset, board.White)
	require.NoError(t, err)
	return board.NewEditedBoard(board.NewZobristTable(1), pos, board.White, 1, 0, "")
}

func TestSearchRootFindsBackRankMateInOne(t *testing.T) {
	b := buildBackRankMate(t)
	tt := transposition.New(10)
	budget := search.Budget{DepthLimit: 3}

	move, pv, err := search.SearchRoot(context.Background(), b, tt, eval.DefaultGene(), budget, false, nil, nil)
	require.NoError(t, err)

	wantFrom, _ := board.ParseOffsetStr("a1")
	wantTo, _ := board.ParseOffsetStr("a8")
	assert.Equal(t, wantFrom, move.From)
	assert.Equal(t, wantTo, move.To)
	assert.Greater(t, pv.Score, eval.Win-eval.Score(10000))
	assert.Equal(t, move, pv.Moves[0])
}

func TestSearchRootReturnsErrOnCheckmate(t *testing.T) {
	// The back-rank mate already delivered: it's Black to move, boxed in by
	// its own pawns with White's rook already on the open 8th rank.
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

	_, _, err = search.SearchRoot(context.Background(), b, transposition.New(8), eval.DefaultGene(), search.Budget{DepthLimit: 2}, false, nil, nil)
	assert.ErrorIs(t, err, search.ErrNoLegalMoves)
}

func TestSearchRootRespectsDepthLimit(t *testing.T) {
	b := board.NewBoard(board.NewZobristTable(1))
	tt := transposition.New(10)

	_, pv, err := search.SearchRoot(context.Background(), b, tt, eval.DefaultGene(), search.Budget{DepthLimit: 2}, false, nil, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, pv.Depth, 2)
	assert.NotEmpty(t, pv.Moves)
}

type recordingObserver struct {
	calls int
}

func (o *recordingObserver) Observe(b *board.Board, pv search.PV, stats *search.Stats) {
	o.calls++
}

func TestSearchRootNotifiesObserverPerIteration(t *testing.T) {
	b := board.NewBoard(board.NewZobristTable(1))
	obs := &recordingObserver{}

	_, _, err := search.SearchRoot(context.Background(), b, transposition.New(10), eval.DefaultGene(), search.Budget{DepthLimit: 2}, false, nil, obs)
	require.NoError(t, err)
	assert.Equal(t, 2, obs.calls)
}

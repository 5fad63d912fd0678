package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perft counts leaf nodes at a given depth by full legal-move enumeration,
// the standard move-generator correctness check.
func perft(b *Board, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := b.LegalMoves()
	if depth == 1 {
		return moves.Len()
	}
	total := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		require2(b.PushMove(m))
		total += perft(b, depth-1)
		b.PopMove()
	}
	return total
}

// require2 panics on a false push -- perft only ever pushes moves it just
// generated as legal, so a false result indicates a move generation bug.
func require2(ok bool) {
	if !ok {
		panic("perft: legal move rejected by PushMove")
	}
}

func TestPerftInitialPosition(t *testing.T) {
	zt := NewZobristTable(1)
	b := NewBoard(zt)

	assert.Equal(t, 20, perft(b, 1))
	assert.Equal(t, 400, perft(b, 2))
	assert.Equal(t, 8902, perft(b, 3))
}

func TestPushPopRestoresHash(t *testing.T) {
	zt := NewZobristTable(7)
	b := NewBoard(zt)
	h0 := b.Hash()

	moves := b.LegalMoves()
	require.Greater(t, moves.Len(), 0)
	m := moves.At(0)

	require.True(t, b.PushMove(m))
	assert.NotEqual(t, h0, b.Hash())
	assert.Equal(t, zt.CalcHash(b.Position(), b.Turn()), b.Hash())

	_, ok := b.PopMove()
	require.True(t, ok)
	assert.Equal(t, h0, b.Hash())
}

func TestPushMoveRejectsSelfCheck(t *testing.T) {
	placements := []Placement{
		{NewOffset(4, 0), WK},
		{NewOffset(4, 1), WR},
		{NewOffset(4, 7), BK},
		{NewOffset(4, 6), BR},
	}
	pos, err := NewPosition(placements, 0, NullOffset, White)
	require.NoError(t, err)
	zt := NewZobristTable(3)
	b := NewEditedBoard(zt, pos, White, 1, 0, "")

	// moving the rook off the e-file exposes the white king to the black rook.
	m := Move{From: NewOffset(4, 1), To: NewOffset(3, 1), Type: Normal, Piece: WR}
	assert.False(t, b.PushMove(m))
}

func TestThreefoldRepetition(t *testing.T) {
	zt := NewZobristTable(5)
	b := NewBoard(zt)

	shuffle := []Move{
		{From: NewOffset(6, 0), To: NewOffset(5, 2), Type: Normal, Piece: WN},
		{From: NewOffset(6, 7), To: NewOffset(5, 5), Type: Normal, Piece: BN},
		{From: NewOffset(5, 2), To: NewOffset(6, 0), Type: Normal, Piece: WN},
		{From: NewOffset(5, 5), To: NewOffset(6, 7), Type: Normal, Piece: BN},
	}

	for _, m := range shuffle {
		require.True(t, b.PushMove(m))
	}
	assert.False(t, b.IsDefiniteDraw()) // starting position seen twice so far

	for _, m := range shuffle {
		require.True(t, b.PushMove(m))
	}
	assert.True(t, b.IsDefiniteDraw()) // starting position seen a third time
}

func TestCheckmateResult(t *testing.T) {
	// fool's mate
	zt := NewZobristTable(9)
	b := NewBoard(zt)
	moves := []Move{
		{From: NewOffset(5, 1), To: NewOffset(5, 2), Type: Push, Piece: WP},
		{From: NewOffset(4, 6), To: NewOffset(4, 4), Type: Jump, Piece: BP},
		{From: NewOffset(6, 1), To: NewOffset(6, 3), Type: Jump, Piece: WP},
		{From: NewOffset(3, 7), To: NewOffset(7, 3), Type: Normal, Piece: BQ},
	}
	for _, m := range moves {
		require.True(t, b.PushMove(m))
	}
	assert.Equal(t, BlackWins, b.Result())
	assert.True(t, b.GameIsOver())
}

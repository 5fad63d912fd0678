package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUnmakeRoundTrip(t *testing.T) {
	pos := NewInitialPosition()
	before := pos.Clone()

	moves := []Move{
		{From: NewOffset(4, 1), To: NewOffset(4, 3), Type: Jump, Piece: WP},
		{From: NewOffset(4, 6), To: NewOffset(4, 4), Type: Jump, Piece: BP},
		{From: NewOffset(6, 0), To: NewOffset(5, 2), Type: Normal, Piece: WN},
	}

	var infos []UnmoveInfo
	for _, m := range moves {
		infos = append(infos, pos.Make(m))
	}
	assert.False(t, pos.Equals(before))

	for i := len(moves) - 1; i >= 0; i-- {
		pos.Unmake(moves[i], infos[i])
	}
	assert.True(t, pos.Equals(before))
	assert.Equal(t, before.material, pos.material)
	assert.Equal(t, before.king, pos.king)
}

func TestMakeUnmakeCapture(t *testing.T) {
	pos := NewInitialPosition()
	wp := Move{From: NewOffset(4, 1), To: NewOffset(4, 3), Type: Jump, Piece: WP}
	bp := Move{From: NewOffset(3, 6), To: NewOffset(3, 4), Type: Jump, Piece: BP}
	pos.Make(wp)
	pos.Make(bp)

	before := pos.Clone()
	capture := Move{From: NewOffset(4, 3), To: NewOffset(3, 4), Type: Capture, Piece: WP, Capture: BP}
	u := pos.Make(capture)
	assert.Equal(t, BP, u.Capture)
	assert.Equal(t, 138, pos.Material(Black)) // one pawn down from the starting 139 (king counts 100)

	pos.Unmake(capture, u)
	assert.True(t, pos.Equals(before))
	assert.Equal(t, before.material, pos.material)
}

func TestMakeUnmakeCastle(t *testing.T) {
	placements := []Placement{
		{NewOffset(4, 0), WK},
		{NewOffset(7, 0), WR},
		{NewOffset(4, 7), BK},
	}
	pos, err := NewPosition(placements, FullCastlingRights, NullOffset, White)
	require.NoError(t, err)
	before := pos.Clone()

	castle := Move{From: NewOffset(4, 0), To: NewOffset(6, 0), Type: KingSideCastle, Piece: WK}
	u := pos.Make(castle)
	assert.Equal(t, NewOffset(6, 0), pos.King(White))
	rook, _ := pos.Square(NewOffset(5, 0))
	assert.Equal(t, WR, rook)
	assert.False(t, pos.Castling().Allows(WhiteKingSide))

	pos.Unmake(castle, u)
	assert.True(t, pos.Equals(before))
	assert.True(t, pos.Castling().Allows(WhiteKingSide))
}

func TestMakeUnmakeEnPassant(t *testing.T) {
	placements := []Placement{
		{NewOffset(4, 0), WK},
		{NewOffset(4, 7), BK},
		{NewOffset(4, 4), WP},
		{NewOffset(3, 6), BP},
	}
	pos, err := NewPosition(placements, 0, NullOffset, White)
	require.NoError(t, err)

	jump := Move{From: NewOffset(3, 6), To: NewOffset(3, 4), Type: Jump, Piece: BP}
	pos.Make(jump)
	ep, ok := pos.EnPassantTarget()
	require.True(t, ok)
	assert.Equal(t, NewOffset(3, 5), ep)

	before := pos.Clone()
	capture := Move{From: NewOffset(4, 4), To: NewOffset(3, 5), Type: EnPassantWest, Piece: WP, Capture: BP}
	u := pos.Make(capture)
	if pc, ok := pos.Square(NewOffset(3, 4)); ok {
		t.Fatalf("captured pawn still present: %v", pc)
	}
	assert.Equal(t, 0, pos.Count(Black, Pawn))

	pos.Unmake(capture, u)
	assert.True(t, pos.Equals(before))
	assert.Equal(t, 1, pos.Count(Black, Pawn))
}

func TestZobristHashMatchesCalcHash(t *testing.T) {
	zt := NewZobristTable(1)
	pos := NewInitialPosition()
	hash := zt.CalcHash(pos, White)

	m := Move{From: NewOffset(4, 1), To: NewOffset(4, 3), Type: Jump, Piece: WP}
	u := pos.Make(m)
	hash = zt.Move(hash, pos, White, m, u)

	assert.Equal(t, zt.CalcHash(pos, Black), hash)
}

func TestHasInsufficientMaterial(t *testing.T) {
	placements := []Placement{
		{NewOffset(4, 0), WK},
		{NewOffset(4, 7), BK},
		{NewOffset(2, 0), WB},
	}
	pos, err := NewPosition(placements, 0, NullOffset, White)
	require.NoError(t, err)
	assert.True(t, pos.HasInsufficientMaterial())

	pos.SetSquare(NewOffset(2, 7), BQ)
	assert.False(t, pos.HasInsufficientMaterial())
}

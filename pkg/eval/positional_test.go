package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
)

func TestOutpostsRewardsUnchallengeableKnight(t *testing.T) {
	placements := []board.Placement{
		{board.NewOffset(4, 0), board.WK},
		{board.NewOffset(4, 7), board.BK},
		{board.NewOffset(4, 4), board.WN}, // e5, no black pawns anywhere to challenge it
	}
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)

	e := New(DefaultGene())
	assert.Equal(t, Score(e.Gene.Get(GKnightOutpostBonus)), e.outposts(pos))
}

func TestOutpostsIgnoresUnadvancedKnight(t *testing.T) {
	placements := []board.Placement{
		{board.NewOffset(4, 0), board.WK},
		{board.NewOffset(4, 7), board.BK},
		{board.NewOffset(4, 1), board.WN}, // e2, not advanced enough to be an outpost
	}
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)

	e := New(DefaultGene())
	assert.Equal(t, Score(0), e.outposts(pos))
}

func TestKingOppositionFavorsSideNotToMove(t *testing.T) {
	placements := []board.Placement{
		{board.NewOffset(4, 3), board.WK}, // e4
		{board.NewOffset(4, 5), board.BK}, // e6, direct opposition two ranks apart
	}
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)

	e := New(DefaultGene())
	assert.Equal(t, -Score(e.Gene.Get(GKingOppositionBonus)), e.kingOpposition(pos, board.White))
	assert.Equal(t, Score(e.Gene.Get(GKingOppositionBonus)), e.kingOpposition(pos, board.Black))
}

func TestDrawishPenaltyShrinksOppositeColoredBishopEnding(t *testing.T) {
	placements := []board.Placement{
		{board.NewOffset(4, 0), board.WK},
		{board.NewOffset(4, 7), board.BK},
		{board.NewOffset(2, 0), board.WB}, // c1, a dark square
		{board.NewOffset(2, 7), board.BB}, // c8, a light square
		{board.NewOffset(0, 1), board.WP},
	}
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)

	e := New(DefaultGene())
	raw := e.materialCurve(e.rawMaterial(pos, board.White)) - e.materialCurve(e.rawMaterial(pos, board.Black))
	full := e.material(pos)
	assert.Less(t, float32(full), float32(raw)) // White's extra pawn is worth less with bishops of opposite color
}

func TestBishopPairEndgameBonusOnlyAppliesWithoutQueens(t *testing.T) {
	placements := []board.Placement{
		{board.NewOffset(4, 0), board.WK},
		{board.NewOffset(4, 7), board.BK},
		{board.NewOffset(2, 0), board.WB},
		{board.NewOffset(5, 0), board.WB},
	}
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)

	e := New(DefaultGene())
	curve := e.materialCurve(e.rawMaterial(pos, board.White)) - e.materialCurve(e.rawMaterial(pos, board.Black))
	want := curve + Score(e.Gene.Get(GBishopPairBonus)) + Score(e.Gene.Get(GBishopPairEndgameBonus))
	assert.Equal(t, want, e.material(pos))
}

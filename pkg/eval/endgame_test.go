package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
)

func TestEndgameEvalRewardsCorneredWeakKing(t *testing.T) {
	e := New(DefaultGene())

	cornered := mustPosition(t, []board.Placement{
		{board.NewOffset(4, 4), board.WK}, // e5, centralized
		{board.NewOffset(0, 0), board.BK}, // a1, in the corner
		{board.NewOffset(0, 1), board.WR},
	})
	centered := mustPosition(t, []board.Placement{
		{board.NewOffset(4, 4), board.WK},
		{board.NewOffset(3, 3), board.BK}, // d4, centralized
		{board.NewOffset(0, 1), board.WR},
	})

	assert.Greater(t, float32(e.EndgameEval(cornered, board.White)), float32(e.EndgameEval(centered, board.White)))
}

func TestEndgameEvalPenalizesBishopKnightMate(t *testing.T) {
	e := New(DefaultGene())

	bishopKnight := mustPosition(t, []board.Placement{
		{board.NewOffset(4, 4), board.WK},
		{board.NewOffset(0, 0), board.BK},
		{board.NewOffset(2, 0), board.WB},
		{board.NewOffset(1, 0), board.WN},
	})
	bishopPair := mustPosition(t, []board.Placement{
		{board.NewOffset(4, 4), board.WK},
		{board.NewOffset(0, 0), board.BK},
		{board.NewOffset(2, 0), board.WB},
		{board.NewOffset(5, 0), board.WB},
	})

	assert.Less(t, float32(e.EndgameEval(bishopKnight, board.White)), float32(e.EndgameEval(bishopPair, board.White)))
}

func mustPosition(t *testing.T, placements []board.Placement) *board.Position {
	t.Helper()
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)
	return pos
}

package eval

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
)

func TestEvaluateStartPositionIsSymmetric(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	e := New(DefaultGene())

	s := e.Evaluate(context.Background(), b)
	assert.Equal(t, Score(e.Gene.Get(GTempoBonus)), s) // only White-to-move's tempo bonus differs
}

func TestEvaluateRewardsExtraQueen(t *testing.T) {
	placements := []board.Placement{
		{board.NewOffset(4, 0), board.WK},
		{board.NewOffset(4, 7), board.BK},
		{board.NewOffset(3, 0), board.WQ},
	}
	pos, err := board.NewPosition(placements, 0, board.NullOffset, board.White)
	require.NoError(t, err)
	zt := board.NewZobristTable(1)
	b := board.NewEditedBoard(zt, pos, board.White, 1, 0, "")

	e := New(DefaultGene())
	s := e.Evaluate(context.Background(), b)
	assert.Greater(t, float32(s), float32(Score(e.Gene.Get(GQueenValue))))
}

func TestGeneLoadOverridesOnlyNamedValues(t *testing.T) {
	g, err := Load(bytes.NewBufferString("PawnValue=110\n# a comment\n\nBishopPairBonus=40\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(110), g.Get(GPawnValue))
	assert.Equal(t, int32(40), g.Get(GBishopPairBonus))
	assert.Equal(t, geneSpecs[GKnightValue].Default, g.Get(GKnightValue))
}

func TestGeneLoadRejectsOutOfRange(t *testing.T) {
	_, err := Load(bytes.NewBufferString("PawnValue=5000\n"))
	assert.Error(t, err)
}

func TestGeneLoadRejectsUnknownName(t *testing.T) {
	_, err := Load(bytes.NewBufferString("NotAGene=1\n"))
	assert.Error(t, err)
}

func TestGeneSaveLoadRoundTrip(t *testing.T) {
	g := DefaultGene()
	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))

	g2, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.values, g2.values)
}

package transposition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
)

func TestStoreLookupRoundTrip(t *testing.T) {
	tt := New(8)
	m := board.Move{From: board.NewOffset(4, 1), To: board.NewOffset(4, 3), Type: board.Jump, Piece: board.WP}

	tt.Store(board.White, 1234, 6, 0, m, eval.Score(42), Exact)

	e, ok := tt.Lookup(board.White, 1234)
	require.True(t, ok)
	assert.Equal(t, uint32(1234), e.Hash)
	assert.Equal(t, 6, e.Depth)
	assert.Equal(t, Exact, e.Bound)
	assert.Equal(t, m, e.Move)
	assert.Equal(t, eval.Score(42), e.Score)
}

func TestLookupMissReturnsFalse(t *testing.T) {
	tt := New(8)
	_, ok := tt.Lookup(board.White, 999)
	assert.False(t, ok)
}

func TestWhiteAndBlackTablesAreIndependent(t *testing.T) {
	tt := New(8)
	tt.Store(board.White, 5, 4, 0, board.Move{}, eval.Score(1), Exact)

	_, ok := tt.Lookup(board.Black, 5)
	assert.False(t, ok, "a hash stored under White's table must not leak into Black's")
}

func TestSameGenerationKeepsDeeperEntry(t *testing.T) {
	tt := New(4)
	hash := uint32(7)

	tt.Store(board.White, hash, 10, 0, board.Move{}, eval.Score(1), Exact)
	tt.Store(board.White, hash, 3, 0, board.Move{}, eval.Score(2), Exact)

	e, ok := tt.Lookup(board.White, hash)
	require.True(t, ok)
	assert.Equal(t, 10, e.Depth, "shallower same-generation store must not replace a deeper entry")
}

func TestNewGenerationAllowsShallowerOverwrite(t *testing.T) {
	tt := New(4)
	hash := uint32(99)

	tt.Store(board.White, hash, 12, 0, board.Move{}, eval.Score(1), Exact)
	tt.NewGeneration()
	tt.Store(board.White, hash, 2, 0, board.Move{}, eval.Score(9), Lower)

	e, ok := tt.Lookup(board.White, hash)
	require.True(t, ok)
	assert.Equal(t, 2, e.Depth)
	assert.Equal(t, Lower, e.Bound)
}

func TestClearResetsTable(t *testing.T) {
	tt := New(4)
	tt.Store(board.White, 1, 5, 0, board.Move{}, eval.Score(1), Exact)
	tt.NewGeneration()

	tt.Clear()

	_, ok := tt.Lookup(board.White, 1)
	assert.False(t, ok)
	assert.Equal(t, uint8(0), tt.generation)
	assert.Equal(t, float64(0), tt.Used())
}

func TestBoundString(t *testing.T) {
	assert.Equal(t, "Exact", Exact.String())
	assert.Equal(t, "Lower", Lower.String())
	assert.Equal(t, "Upper", Upper.String())
	assert.Equal(t, "?", NoBound.String())
}

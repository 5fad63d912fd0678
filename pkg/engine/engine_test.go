package engine_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board/fen"
	"github.com/corvidae/boxmate/pkg/book"
	"github.com/corvidae/boxmate/pkg/engine"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), engine.WithOptions(engine.Options{Depth: 3}))
}

func TestNewStartsAtInitialPosition(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, fen.Initial, e.FEN())
	assert.Equal(t, "*", e.Result().String())
}

func TestResetAcceptsArbitraryFEN(t *testing.T) {
	e := newEngine(t)
	pos := "8/8/8/4k3/8/8/4K3/4R3 w - - 0 1"
	require.NoError(t, e.Reset(context.Background(), pos))
	assert.Equal(t, pos, e.FEN())
}

func TestResetRejectsBadFEN(t *testing.T) {
	e := newEngine(t)
	err := e.Reset(context.Background(), "not a fen")
	assert.Error(t, err)
}

func TestMoveAppliesAtomically(t *testing.T) {
	e := newEngine(t)
	n, err := e.Move(context.Background(), "e2e4", "e7e5")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	moves, err := e.History(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5"}, moves)
}

func TestMoveRollsBackOnFirstBadToken(t *testing.T) {
	e := newEngine(t)
	before := e.FEN()

	_, err := e.Move(context.Background(), "e2e4", "bogus", "e7e5")
	assert.Error(t, err)
	assert.Equal(t, before, e.FEN())
}

func TestTestReportsLegality(t *testing.T) {
	e := newEngine(t)

	alg, pgn, ok := e.Test("e2e4")
	assert.True(t, ok)
	assert.Equal(t, "e2e4", alg)
	assert.Equal(t, "e4", pgn)

	_, _, ok = e.Test("e2e5")
	assert.False(t, ok)
}

func TestLegalMovesFormats(t *testing.T) {
	e := newEngine(t)

	alg, err := e.LegalMoves(false)
	require.NoError(t, err)
	assert.Len(t, alg, 20)

	pgn, err := e.LegalMoves(true)
	require.NoError(t, err)
	assert.Len(t, pgn, 20)
	assert.Contains(t, pgn, "e4")
}

func TestUndoRestoresPriorPosition(t *testing.T) {
	e := newEngine(t)
	before := e.FEN()

	_, err := e.Move(context.Background(), "e2e4")
	require.NoError(t, err)
	require.NoError(t, e.Undo(context.Background(), 1))
	assert.Equal(t, before, e.FEN())
}

func TestUndoRejectsTooManyPlies(t *testing.T) {
	e := newEngine(t)
	err := e.Undo(context.Background(), 1)
	assert.Error(t, err)
}

func TestThinkPlaysAMoveAndAdvancesTheBoard(t *testing.T) {
	e := newEngine(t)
	before := e.FEN()

	alg, pgn, err := e.Think(context.Background(), 200*time.Millisecond, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, alg)
	assert.NotEmpty(t, pgn)
	assert.NotEqual(t, before, e.FEN())
}

func TestThinkReturnsErrGameOverWhenGameHasEnded(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Reset(context.Background(), "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1"))

	_, _, err := e.Think(context.Background(), 200*time.Millisecond, nil)
	assert.ErrorIs(t, err, engine.ErrGameOver)
}

func TestThinkPrefersBookMoveWhenAvailable(t *testing.T) {
	bk, err := book.Compile(strings.NewReader("e2e4\n"))
	require.NoError(t, err)

	e := engine.New(context.Background(), engine.WithBook(bk), engine.WithOptions(engine.Options{Depth: 2}))
	alg, _, err := e.Think(context.Background(), 200*time.Millisecond, nil)
	require.NoError(t, err)
	assert.Equal(t, "e2e4", alg)
}

func TestSetHashRebuildsTheTranspositionTable(t *testing.T) {
	e := newEngine(t)
	e.SetHash(1)
	opts := e.Options()
	assert.EqualValues(t, 1, opts.Hash)
}

func TestHistoryPGNReplaysFromTheStart(t *testing.T) {
	e := newEngine(t)
	_, err := e.Move(context.Background(), "e2e4", "e7e5", "g1f3")
	require.NoError(t, err)

	moves, err := e.History(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, moves)
}

package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/engine"
	"github.com/corvidae/boxmate/pkg/engine/command"
)

func run(t *testing.T, lines ...string) []string {
	t.Helper()

	e := engine.New(context.Background(), engine.WithOptions(engine.Options{Depth: 2}))
	in := make(chan string, len(lines))
	for _, l := range lines {
		in <- l
	}
	close(in)

	_, out := command.NewDriver(context.Background(), e, in)

	var got []string
	for {
		select {
		case s, ok := <-out:
			if !ok {
				return got
			}
			got = append(got, s)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for driver output")
		}
	}
}

func TestNewReturnsOK(t *testing.T) {
	got := run(t, "new", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "OK", got[0])
	assert.Equal(t, "OK", got[1])
}

func TestStatusReportsResultAndFENWithoutOKPrefix(t *testing.T) {
	got := run(t, "status", "exit")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "*")
	assert.NotContains(t, got[0], "OK")
}

func TestLegalListsMoveCount(t *testing.T) {
	got := run(t, "legal", "exit")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "OK 20")
}

func TestLegalRejectsBadFormat(t *testing.T) {
	got := run(t, "legal xyz", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "BAD_FORMAT", got[0])
}

func TestTestReportsLegalityOfAMove(t *testing.T) {
	got := run(t, "test e2e4", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "OK e2e4 e4", got[0])
}

func TestTestReportsIllegalMove(t *testing.T) {
	got := run(t, "test e2e5", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "ILLEGAL", got[0])
}

func TestMovePlaysASequenceAtomically(t *testing.T) {
	got := run(t, "move e2e4 e7e5", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "OK 2", got[0])
}

func TestMoveReportsTheFailingToken(t *testing.T) {
	got := run(t, "move e2e4 bogus", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "BAD_MOVE bogus", got[0])
}

func TestThinkReturnsAMove(t *testing.T) {
	got := run(t, "think 200", "exit")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "OK ")
}

func TestThinkRejectsBadTime(t *testing.T) {
	got := run(t, "think 0", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "BAD_THINK_TIME", got[0])
}

func TestUndoRejectsTooManyTurns(t *testing.T) {
	got := run(t, "undo 1", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "BAD_NUM_TURNS", got[0])
}

func TestHistoryOfEmptyGame(t *testing.T) {
	got := run(t, "history", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "OK 0 ", got[0])
}

func TestUnknownVerb(t *testing.T) {
	got := run(t, "frobnicate", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "UNKNOWN_COMMAND", got[0])
}

func TestBlankLineCannotParse(t *testing.T) {
	got := run(t, "", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "CANNOT_PARSE", got[0])
}

func TestWrongArgCountIsBadArgs(t *testing.T) {
	got := run(t, "status foo", "exit")
	require.Len(t, got, 2)
	assert.Equal(t, "BAD_ARGS", got[0])
}

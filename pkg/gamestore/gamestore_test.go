package gamestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/board/fen"
	"github.com/corvidae/boxmate/pkg/gamestore"
)

func openStore(t *testing.T) *gamestore.Store {
	t.Helper()
	s, err := gamestore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	s := openStore(t)

	b := board.NewBoard(board.NewZobristTable(1))
	moves := b.LegalMoves().Slice()[:2]
	want := gamestore.SavedGame{StartFEN: fen.Initial, Moves: moves}

	require.NoError(t, s.Save("alice", want))

	got, ok, err := s.Load("alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestLoadMissingSessionReportsNotFound(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Load("nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteRemovesASession(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Save("bob", gamestore.SavedGame{StartFEN: fen.Initial}))

	require.NoError(t, s.Delete("bob"))

	_, ok, err := s.Load("bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListReturnsAllSessionIDs(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Save("alice", gamestore.SavedGame{StartFEN: fen.Initial}))
	require.NoError(t, s.Save("bob", gamestore.SavedGame{StartFEN: fen.Initial}))

	ids, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)
}

package book_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/book"
)

const source = `
[
e2e4
d7d5
d2d4

[
e2e4
d7d6?

[
d2d4
d7d6
`

func newStartBoard() *board.Board {
	return board.NewBoard(board.NewZobristTable(1))
}

func play(t *testing.T, b *board.Board, moves ...string) {
	t.Helper()
	for _, str := range moves {
		from, err := board.ParseOffsetStr(str[0:2])
		require.NoError(t, err)
		to, err := board.ParseOffsetStr(str[2:4])
		require.NoError(t, err)

		found := false
		for _, m := range b.LegalMoves().Slice() {
			if m.From == from && m.To == to {
				require.True(t, b.PushMove(m))
				found = true
				break
			}
		}
		require.True(t, found, "move %v not legal", str)
	}
}

func moveStrings(moves []board.Move) []string {
	var out []string
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}

func TestCompileAndFindAtRoot(t *testing.T) {
	bk, err := book.Compile(strings.NewReader(source))
	require.NoError(t, err)

	b := newStartBoard()
	moves, err := bk.Find(b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e2e4", "d2d4"}, moveStrings(moves))
}

func TestFindFiltersAvoidableMoves(t *testing.T) {
	bk, err := book.Compile(strings.NewReader(source))
	require.NoError(t, err)

	b := newStartBoard()
	play(t, b, "e2e4")

	moves, err := bk.Find(b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"d7d5"}, moveStrings(moves))
}

func TestFindEmptyOnceOutOfBook(t *testing.T) {
	bk, err := book.Compile(strings.NewReader(source))
	require.NoError(t, err)

	b := newStartBoard()
	play(t, b, "e2e4", "e7e5")

	moves, err := bk.Find(b)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestFindDisabledForEditedBoard(t *testing.T) {
	bk, err := book.Compile(strings.NewReader(source))
	require.NoError(t, err)

	pos := board.NewInitialPosition()
	b := board.NewEditedBoard(board.NewZobristTable(1), pos, board.White, 1, 0, "whatever")

	moves, err := bk.Find(b)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestNoBookIsAlwaysEmpty(t *testing.T) {
	b := newStartBoard()
	moves, err := book.NoBook.Find(b)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestSaveLoadFileRoundTrip(t *testing.T) {
	bk, err := book.Compile(strings.NewReader(source))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "openbook.dat")
	require.NoError(t, book.SaveFile(bk, path))

	loaded, err := book.LoadFile(path)
	require.NoError(t, err)

	b := newStartBoard()
	moves, err := loaded.Find(b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e2e4", "d2d4"}, moveStrings(moves))

	play(t, b, "e2e4")
	moves, err = loaded.Find(b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"d7d5"}, moveStrings(moves))
}

package endgame

import (
	"context"
	"testing"

	"github.com/corvidae/boxmate/pkg/board"
)

func TestGenerateRejectsUnsupportedExtra(t *testing.T) {
	for _, k := range []board.Kind{board.Pawn, board.King} {
		if _, err := Generate(context.Background(), k); err == nil {
			t.Fatalf("Generate(%v) should be rejected", k)
		}
	}
}

func TestGenerateRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Generate(ctx, board.Rook); err == nil {
		t.Fatal("Generate should report the context's error once cancelled")
	}
}

func TestBuildBoardRejectsAdjacentKings(t *testing.T) {
	_, ok := buildBoard(board.NewZobristTable(1), sq(mustOffset(t, "e8")), sq(mustOffset(t, "e7")), sq(mustOffset(t, "a1")), board.Queen, true)
	if ok {
		t.Fatal("adjacent kings should never reach buildBoard as a legal position in this caller convention, but if they do, the resulting position leaves the loser in permanent check and should still be rejected")
	}
}

func TestChildOfReadsBackPlacedSquares(t *testing.T) {
	b, ok := buildBoard(board.NewZobristTable(1), sq(mustOffset(t, "a8")), sq(mustOffset(t, "e1")), sq(mustOffset(t, "b1")), board.Rook, true)
	if !ok {
		t.Fatal("buildBoard failed for a simple KRK setup")
	}

	c := childOf(b, board.Rook)
	if c.lk != sq(mustOffset(t, "a8")) || c.wk != sq(mustOffset(t, "e1")) || c.ex != sq(mustOffset(t, "b1")) {
		t.Fatalf("childOf = %+v, want lk=a8 wk=e1 ex=b1", c)
	}
}

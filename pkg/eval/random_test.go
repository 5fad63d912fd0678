package eval

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidae/boxmate/pkg/board"
)

func TestRandomZeroLimitIsAlwaysZero(t *testing.T) {
	g := DefaultGene()
	require.Equal(t, int32(0), g.Get(GNoiseLimitMillipawns)) // default is off

	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	n := NewRandom(g, rand.New(rand.NewSource(1)))
	assert.Equal(t, Score(0), n.Evaluate(context.Background(), b))
}

func TestRandomNilRandIsZero(t *testing.T) {
	g := geneWithNoiseLimit(200)
	n := NewRandom(g, nil)
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	assert.Equal(t, Score(0), n.Evaluate(context.Background(), b))
}

func TestRandomStaysWithinLimit(t *testing.T) {
	g := geneWithNoiseLimit(200)
	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	n := NewRandom(g, rand.New(rand.NewSource(42)))

	for i := 0; i < 100; i++ {
		s := n.Evaluate(context.Background(), b)
		assert.GreaterOrEqual(t, float32(s), float32(-0.1))
		assert.LessOrEqual(t, float32(s), float32(0.1))
	}
}

func TestNoisyAddsBaseAndNoise(t *testing.T) {
	g := geneWithNoiseLimit(0)
	base := New(g)
	noisy := Noisy{Base: base, Noise: NewRandom(g, rand.New(rand.NewSource(1)))}

	zt := board.NewZobristTable(1)
	b := board.NewBoard(zt)
	assert.Equal(t, base.Evaluate(context.Background(), b), noisy.Evaluate(context.Background(), b))
}

func geneWithNoiseLimit(limit int32) *Gene {
	g := DefaultGene()
	g.values[GNoiseLimitMillipawns] = limit
	return g
}

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corvidae/boxmate/pkg/eval"
)

func TestOopsModeExtensionTriggersOnLargeDrop(t *testing.T) {
	g := eval.DefaultGene()
	margin := eval.Score(g.Get(eval.GOopsModeMargin)) // always > 0 by default (50)

	prev := eval.Score(100)
	cur := prev - margin - 1

	extension := oopsModeExtension(prev, cur, g, time.Second)
	wantPercent := g.Get(eval.GOopsModeExtensionPercent)
	want := time.Second * time.Duration(wantPercent) / 100
	assert.Equal(t, want, extension)
	assert.Greater(t, extension, time.Duration(0))
}

func TestOopsModeExtensionIgnoresSmallDrop(t *testing.T) {
	g := eval.DefaultGene()
	margin := eval.Score(g.Get(eval.GOopsModeMargin))

	prev := eval.Score(100)
	cur := prev - margin + 1 // just under the margin

	assert.Equal(t, time.Duration(0), oopsModeExtension(prev, cur, g, time.Second))
}

func TestOopsModeExtensionIgnoresScoreImprovement(t *testing.T) {
	g := eval.DefaultGene()
	assert.Equal(t, time.Duration(0), oopsModeExtension(eval.Score(100), eval.Score(150), g, time.Second))
}

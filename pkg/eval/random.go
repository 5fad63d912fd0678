package eval

import (
	"context"
	"math/rand"

	"github.com/corvidae/boxmate/pkg/board"
)

// Random adds a small amount of noise to an evaluation, so otherwise
// equally-scored moves don't always resolve the same way. The limit is in
// millipawns, giving noise uniformly distributed in [-limit/2, limit/2].
// GNoiseLimitMillipawns defaults to 0, which always returns zero. It takes
// the caller's own *rand.Rand rather than a seed, matching the rest of the
// engine's caller-owned-RNG convention (pkg/player.Player.Rand).
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(g *Gene, rng *rand.Rand) Random {
	return Random{
		limit: int(g.Get(GNoiseLimitMillipawns)),
		rand:  rng,
	}
}

func (n Random) Evaluate(ctx context.Context, b *board.Board) Score {
	if n.limit <= 0 || n.rand == nil {
		return 0
	}
	return Score(n.rand.Intn(n.limit)-n.limit/2) / 1000
}

// Noisy composes a base Evaluator with Random jitter and implements
// Evaluator itself, so search's leaf call site can swap noise in through
// the interface without depending on the concrete Eval type.
type Noisy struct {
	Base  Evaluator
	Noise Random
}

func (n Noisy) Evaluate(ctx context.Context, b *board.Board) Score {
	return n.Base.Evaluate(ctx, b) + n.Noise.Evaluate(ctx, b)
}

// Package search implements iterative-deepening alpha-beta search with
// quiescence, killer/history move ordering, a best-path array and
// transposition-table cutoffs/seeding. SearchRoot runs synchronously and
// reports one PV per completed depth to an Observer, since boxmate's think
// command has no separate command to halt a search early.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
)

// Budget bounds one SearchRoot call. A zero value in a field means that
// limit does not apply; at least one field should be set or the search runs
// to DepthLimit's implicit ceiling (MaxPly) only.
type Budget struct {
	DepthLimit int           // plies; 0 == no limit
	TimeLimit  time.Duration // 0 == no limit
	NodeLimit  uint64        // 0 == no limit
}

// MaxPly bounds the best-path array and iterative deepening loop, per
// spec's "bounded (<=50 moves)" best path.
const MaxPly = 50

// PV is the principal variation found for a completed (or halted) search
// iteration.
type PV struct {
	Depth int
	Score eval.Score
	Moves []board.Move
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	parts := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		parts[i] = m.String()
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, strings.Join(parts, " "))
}

// Stats is incremented during search and read by pkg/player's observer, per
// spec's "nodes visited/evaluated/generated per ply."
type Stats struct {
	Visited, Evaluated, Generated [MaxPly + 1]uint64
}

func (s *Stats) recordVisit(ply int)    { s.bump(&s.Visited, ply) }
func (s *Stats) recordEval(ply int)     { s.bump(&s.Evaluated, ply) }
func (s *Stats) recordGenerate(ply int) { s.bump(&s.Generated, ply) }

func (s *Stats) bump(arr *[MaxPly + 1]uint64, ply int) {
	if ply < 0 {
		ply = 0
	}
	if ply > MaxPly {
		ply = MaxPly
	}
	arr[ply]++
}

// Observer receives Stats updates as search.PV after every completed
// iteration.
type Observer interface {
	Observe(b *board.Board, pv PV, stats *Stats)
}

// NopObserver discards all updates.
type NopObserver struct{}

func (NopObserver) Observe(*board.Board, PV, *Stats) {}

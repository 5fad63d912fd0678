// Package transposition implements a process-wide transposition table used
// by the search to avoid re-analyzing positions reached by different move
// orders. Storage is split into two generation-stamped tables, one for
// positions where white is to move and one for black, since the turn is
// already folded into board.Board's Zobrist hash: splitting on it for free
// halves the collision rate each sub-table sees without costing an extra
// probe.
package transposition

import (
	"fmt"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/eval"
)

// Bound records whether Entry.Score is exact or -- because alpha-beta
// pruning cut the search short -- only a bound on the true value.
type Bound uint8

const (
	// NoBound marks an empty or invalid slot.
	NoBound Bound = iota
	// Exact means Score is the position's true minimax value.
	Exact
	// Lower means the true value is at least Score (a beta cutoff occurred).
	Lower
	// Upper means the true value is at most Score (no move exceeded alpha).
	Upper
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "Exact"
	case Lower:
		return "Lower"
	case Upper:
		return "Upper"
	default:
		return "?"
	}
}

// Entry is one transposition record, keyed by the originating position's
// Zobrist hash.
type Entry struct {
	Hash       uint32
	Depth      int
	Distance   int // ply from the search root when this entry was created
	Generation uint8
	Move       board.Move
	Score      eval.Score
	Bound      Bound
}

func (e Entry) valid(hash uint32) bool {
	return e.Bound != NoBound && e.Hash == hash
}

// side is one color's slice of the table.
type side struct {
	entries []Entry
	mask    uint32
	stored  uint64
}

func newSide(bits uint) side {
	n := uint32(1) << bits
	return side{entries: make([]Entry, n), mask: n - 1}
}

func (s *side) store(generation uint8, hash uint32, depth, distance int, move board.Move, score eval.Score, bound Bound) {
	idx := hash & s.mask
	e := &s.entries[idx]

	// Replace if the slot is empty, from a stale generation, or the new
	// search is at least as deep -- spec's replace-if-empty-or-stale-or-
	// at-least-as-deep policy.
	if e.Bound == NoBound || e.Generation != generation || depth >= e.Depth {
		if e.Bound == NoBound {
			s.stored++
		}
		*e = Entry{Hash: hash, Depth: depth, Distance: distance, Generation: generation, Move: move, Score: score, Bound: bound}
	}
}

func (s *side) lookup(hash uint32) (Entry, bool) {
	e := s.entries[hash&s.mask]
	return e, e.valid(hash)
}

func (s *side) clear() {
	for i := range s.entries {
		s.entries[i] = Entry{}
	}
	s.stored = 0
}

// Table is the two-table transposition cache, one table per side to move.
// It is not safe for concurrent use by multiple searches against the same
// instance; the engine serializes searches externally (see pkg/engine).
type Table struct {
	white, black side
	generation   uint8
}

// New allocates a table with 1<<bits entries per color.
func New(bits uint) *Table {
	return &Table{white: newSide(bits), black: newSide(bits)}
}

// NewGeneration advances the generation counter. Call once per SearchRoot:
// entries from older generations are treated as stale and freely overwritten,
// rather than requiring at-least-as-deep to replace.
func (t *Table) NewGeneration() {
	t.generation++
}

func (t *Table) sideFor(mover board.Color) *side {
	if mover == board.White {
		return &t.white
	}
	return &t.black
}

// Store records an entry under the table for whichever side is to move in
// the originating position.
func (t *Table) Store(mover board.Color, hash uint32, depth, distance int, move board.Move, score eval.Score, bound Bound) {
	t.sideFor(mover).store(t.generation, hash, depth, distance, move, score, bound)
}

// Lookup returns the entry for hash under mover's table.
func (t *Table) Lookup(mover board.Color, hash uint32) (Entry, bool) {
	return t.sideFor(mover).lookup(hash)
}

// Clear empties both tables and resets the generation counter.
func (t *Table) Clear() {
	t.white.clear()
	t.black.clear()
	t.generation = 0
}

// Size returns the table's memory footprint in bytes, both colors combined.
func (t *Table) Size() uint64 {
	const entrySize = 40 // approximate: hash+depth+distance+generation+move+score+bound, padded
	return uint64(len(t.white.entries)+len(t.black.entries)) * entrySize
}

// Used returns the combined utilization as a fraction [0;1].
func (t *Table) Used() float64 {
	total := len(t.white.entries) + len(t.black.entries)
	return float64(t.white.stored+t.black.stored) / float64(total)
}

func (t *Table) String() string {
	return fmt.Sprintf("TT[%v entries/side @ gen %v, %v%% used]", len(t.white.entries), t.generation, int(100*t.Used()))
}

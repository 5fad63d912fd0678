// Package player implements the move-selection facade the engine drives
// each turn: try the opening book, then the endgame tablebases, and only
// then fall back to full search, per spec's selection order. It also
// relays search.Stats to an observer so a UI can show "thinking" progress.
package player

import (
	"context"
	"errors"
	"math/rand"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/book"
	"github.com/corvidae/boxmate/pkg/endgame"
	"github.com/corvidae/boxmate/pkg/eval"
	"github.com/corvidae/boxmate/pkg/search"
	"github.com/corvidae/boxmate/pkg/transposition"
)

// ErrNoMove is returned by SelectMove when the position has no legal move:
// the caller should report the game as over rather than retry.
var ErrNoMove = errors.New("player: no legal move")

// Source identifies which strategy produced a move, mainly for logging and
// for deciding whether Stats are meaningful (book/endgame moves are
// instantaneous and never touch the search Stats).
type Source int

const (
	FromSearch Source = iota
	FromBook
	FromEndgame
)

func (s Source) String() string {
	switch s {
	case FromBook:
		return "book"
	case FromEndgame:
		return "endgame"
	default:
		return "search"
	}
}

// Player owns the opening book, the endgame tablebases, and the
// transposition table, and drives one turn's move selection: book, then
// endgame, then search, the same order the engine asks for a move every
// turn. The zero value is usable: an empty book and no endgame tables, so
// every turn falls through to search.
type Player struct {
	Book    *book.Book
	Endgame []*endgame.Table // one per supported extra piece kind
	TT      *transposition.Table
	Gene    *eval.Gene
	Budget  search.Budget
	Rand    *rand.Rand

	// BookEnabled toggles step 1 of the selection order, a caller-visible
	// override such as "play out of book". pkg/engine always sets it; an
	// edited position still gets no book move, since the book itself
	// refuses an edited board.
	BookEnabled bool

	// Randomize shuffles the root move order once before search, per
	// spec's weaker "randomised search" play mode. It has no effect on a
	// book or endgame hit, both of which bypass search entirely.
	Randomize bool
}

// TryInstant tries the book and then the endgame tables -- steps 1 and 2 of
// the selection order -- and reports false if neither has an answer, so the
// caller knows it must fall back to search. Both steps are instantaneous;
// SelectMove calls this before running a bounded search.
func (p *Player) TryInstant(b *board.Board) (board.Move, search.PV, Source, bool) {
	if p.BookEnabled && p.Book != nil {
		replies, err := p.Book.Find(b)
		if err == nil && len(replies) > 0 {
			m := replies[0]
			if p.Rand != nil {
				m = replies[p.Rand.Intn(len(replies))]
			}
			return m, bookPV(m), FromBook, true
		}
	}

	for _, tbl := range p.Endgame {
		m, plies, ok := endgame.Consult(tbl, b)
		if !ok {
			continue
		}
		return m, endgamePV(m, plies), FromEndgame, true
	}

	return board.Move{}, search.PV{}, FromSearch, false
}

// SelectMove runs the selection order for one turn: book, then endgame,
// then search. It returns the chosen move, the PV that produced it (a
// single-move, depth-0 PV for book/endgame hits, so callers can treat all
// three sources uniformly), which strategy supplied it, and an error only
// when the position has no legal move at all.
func (p *Player) SelectMove(ctx context.Context, b *board.Board, obs search.Observer) (board.Move, search.PV, Source, error) {
	if m, pv, src, ok := p.TryInstant(b); ok {
		return m, pv, src, nil
	}

	g := p.Gene
	if g == nil {
		g = eval.DefaultGene()
	}
	move, pv, err := search.SearchRoot(ctx, b, p.TT, g, p.Budget, p.Randomize, p.Rand, obs)
	if err != nil {
		if errors.Is(err, search.ErrNoLegalMoves) {
			return board.Move{}, search.PV{}, FromSearch, ErrNoMove
		}
		return board.Move{}, search.PV{}, FromSearch, err
	}
	return move, pv, FromSearch, nil
}

func bookPV(m board.Move) search.PV {
	return search.PV{Moves: []board.Move{m}}
}

func endgamePV(m board.Move, plies int) search.PV {
	score := eval.Win - eval.Score(plies)
	return search.PV{Depth: plies, Score: score, Moves: []board.Move{m}}
}

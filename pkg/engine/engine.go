// Package engine provides the stateful facade the command protocol drives:
// one board, one player, and the runtime options (search depth, hash size,
// root-move randomization) that govern them, all behind a single mutex so
// the command loop never has to reason about concurrent access to the
// board.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/corvidae/boxmate/pkg/board"
	"github.com/corvidae/boxmate/pkg/board/fen"
	"github.com/corvidae/boxmate/pkg/book"
	"github.com/corvidae/boxmate/pkg/endgame"
	"github.com/corvidae/boxmate/pkg/eval"
	"github.com/corvidae/boxmate/pkg/notation"
	"github.com/corvidae/boxmate/pkg/player"
	"github.com/corvidae/boxmate/pkg/search"
	"github.com/corvidae/boxmate/pkg/transposition"
)

var version = build.NewVersion(1, 0, 0)

// Options are the runtime-adjustable knobs the command protocol exposes.
type Options struct {
	// Depth is the search depth limit. Zero means no limit.
	Depth uint
	// Hash is the transposition table size in MB. Zero gives the smallest
	// table, one entry per side; the table is never switched off.
	Hash uint
	// Randomize turns on the "randomised search" mode: the root move order
	// is shuffled once instead of left deterministic, per spec's weaker
	// play mode.
	Randomize bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB, randomize=%v}", o.Depth, o.Hash, o.Randomize)
}

// ErrGameOver is returned by Think when the game has already ended and no
// further move can be made.
var ErrGameOver = fmt.Errorf("engine: game over")

// Engine owns the board and the move-selection player, mirroring the
// teacher's single mutex-guarded facade: every exported method takes the
// lock for its duration, so the command loop above it (pkg/engine/command)
// never needs its own synchronization.
type Engine struct {
	zt   *board.ZobristTable
	seed int64

	book    *book.Book
	egdb    []*endgame.Table
	gene    *eval.Gene
	rng     *rand.Rand
	opts    Options

	mu sync.Mutex
	b  *board.Board
	tt *transposition.Table
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithBook sets the opening book consulted before every search.
func WithBook(bk *book.Book) Option {
	return func(e *Engine) { e.book = bk }
}

// WithEndgame adds endgame tablebases consulted after the book and before
// search.
func WithEndgame(tables ...*endgame.Table) Option {
	return func(e *Engine) { e.egdb = append(e.egdb, tables...) }
}

// WithGene sets the evaluator's heuristic weights. Defaults to
// eval.DefaultGene.
func WithGene(g *eval.Gene) Option {
	return func(e *Engine) { e.gene = g }
}

// WithOptions sets the initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithSeed configures the Zobrist table and root-shuffle RNG seed, instead
// of the default seed of zero.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New creates an Engine at the initial position.
func New(ctx context.Context, opts ...Option) *Engine {
	e := &Engine{gene: eval.DefaultGene()}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)
	e.rng = rand.New(rand.NewSource(e.seed))

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "boxmate %v initialized, options=%v", version, e.opts)
	return e
}

// Version returns the engine's name and version string.
func (e *Engine) Version() string {
	return fmt.Sprintf("boxmate %v", version)
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(mb uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = mb
	e.tt = newTranspositionTable(mb)
}

func (e *Engine) SetRandomize(randomize bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Randomize = randomize
}

// Board returns a forked snapshot safe for the caller to inspect and
// replay moves on without affecting the engine's own position.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Fork()
}

// FEN returns the current position in Forsyth-Edwards Notation.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.b)
}

// Result reports the game outcome in PGN terms: "*", "1-0", "0-1", or
// "1/2-1/2".
func (e *Engine) Result() board.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Result()
}

// Reset starts a new game from position, a FEN string (fen.Initial for the
// standard starting position). fen.Initial starts an unedited game, so the
// book and repetition detection apply; any other FEN starts an edited one.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := board.NewBoard(e.zt)
	if position != fen.Initial {
		var err error
		if b, err = fen.DecodeBoard(e.zt, position); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	e.b = b
	e.tt = newTranspositionTable(e.opts.Hash)

	logw.Infof(ctx, "Reset: %v", e.b)
	return nil
}

// LegalMoves returns the legal moves in the current position, formatted
// either as long algebraic or PGN per pgn.
func (e *Engine) LegalMoves(pgn bool) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return formatMoves(e.b, e.b.LegalMoves().Slice(), pgn)
}

// History returns the moves played so far, formatted per pgn. PGN
// formatting replays the game from the start so each move's disambiguation
// and check suffix reflect the position it was actually played in.
func (e *Engine) History(pgn bool) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	hist := e.b.MoveHistory()
	if !pgn {
		out := make([]string, len(hist))
		for i, m := range hist {
			out[i] = notation.FormatLongAlgebraic(m)
		}
		return out, nil
	}

	replay := board.NewBoard(e.zt)
	if start, edited := e.b.InitialFEN(); edited {
		r, err := fen.DecodeBoard(e.zt, start)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		replay = r
	}
	out := make([]string, len(hist))
	for i, m := range hist {
		s, err := notation.FormatPGN(replay, m)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		out[i] = s
		replay.PushMove(m)
	}
	return out, nil
}

// Test reports whether move (long-algebraic or PGN) is legal in the current
// position, and if so its long-algebraic and PGN forms.
func (e *Engine) Test(move string) (alg, pgn string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := parseMove(e.b, move)
	if err != nil || !e.b.IsLegal(m) {
		return "", "", false
	}
	pgnStr, err := notation.FormatPGN(e.b, m)
	if err != nil {
		return "", "", false
	}
	return notation.FormatLongAlgebraic(m), pgnStr, true
}

// Move plays moves in sequence, atomically: if any token fails to parse or
// isn't legal, no move is applied and the index of the failing token (0
// based) is returned.
func (e *Engine) Move(ctx context.Context, tokens ...string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fork := e.b.Fork()
	for i, tok := range tokens {
		m, err := parseMove(fork, tok)
		if err != nil || !fork.PushMove(m) {
			return i, fmt.Errorf("engine: illegal move %q", tok)
		}
	}
	e.b = fork
	logw.Infof(ctx, "Move %v: %v", tokens, e.b)
	return len(tokens), nil
}

// Undo takes back n plies. It reports how many plies were actually
// available to undo if fewer than n were played.
func (e *Engine) Undo(ctx context.Context, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n <= 0 || n > e.b.Ply() {
		return fmt.Errorf("engine: cannot undo %d plies, only %d played", n, e.b.Ply())
	}
	for i := 0; i < n; i++ {
		if _, ok := e.b.PopMove(); !ok {
			return fmt.Errorf("engine: undo failed at ply %d", i)
		}
	}
	logw.Infof(ctx, "Undo %d: %v", n, e.b)
	return nil
}

// Think selects and plays the engine's own move for the current position:
// the book or an endgame table if either applies, or else a search bounded
// by limit. It returns the move's long-algebraic and PGN forms. The book
// and endgame tables are tried first and return instantly; only the search
// fallback is bounded by limit.
func (e *Engine) Think(ctx context.Context, limit time.Duration, obs search.Observer) (alg, pgn string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b.GameIsOver() {
		return "", "", ErrGameOver
	}

	p := &player.Player{
		Book:        e.book,
		Endgame:     e.egdb,
		TT:          e.tt,
		Gene:        e.gene,
		Budget:      search.Budget{DepthLimit: int(e.opts.Depth), TimeLimit: limit},
		Rand:        e.rng,
		BookEnabled: true,
		Randomize:   e.opts.Randomize,
	}

	move, _, _, err := p.SelectMove(ctx, e.b, obs)
	if err != nil {
		return "", "", fmt.Errorf("engine: %w", err)
	}

	pgnStr, err := notation.FormatPGN(e.b, move)
	if err != nil {
		return "", "", fmt.Errorf("engine: %w", err)
	}
	if !e.b.PushMove(move) {
		return "", "", fmt.Errorf("engine: think selected an illegal move %v", move)
	}

	logw.Infof(ctx, "Think: %v (%v)", move, e.b)
	return notation.FormatLongAlgebraic(move), pgnStr, nil
}

func newTranspositionTable(mb uint) *transposition.Table {
	if mb == 0 {
		return transposition.New(0)
	}
	return transposition.New(bitsForHashMB(mb))
}

// bitsForHashMB picks the largest bit count whose table -- 1<<bits entries
// per side, ~40 bytes/entry, matching transposition.Table.Size's accounting
// -- fits within mb megabytes.
func bitsForHashMB(mb uint) uint {
	budget := uint64(mb) << 20
	bits := uint(1)
	for bits < 24 && sizeForBits(bits+1) <= budget {
		bits++
	}
	return bits
}

func sizeForBits(bits uint) uint64 {
	const entrySize = 40
	return (uint64(1) << bits) * 2 * entrySize
}

func parseMove(b *board.Board, tok string) (board.Move, error) {
	if m, err := notation.ParseLongAlgebraic(b, tok); err == nil {
		return m, nil
	}
	return notation.ParsePGN(b, tok)
}

func formatMoves(b *board.Board, moves []board.Move, pgn bool) ([]string, error) {
	out := make([]string, len(moves))
	for i, m := range moves {
		if !pgn {
			out[i] = notation.FormatLongAlgebraic(m)
			continue
		}
		s, err := notation.FormatPGN(b, m)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		out[i] = s
	}
	return out, nil
}

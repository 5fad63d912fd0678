package board

// repetitionSize is a prime bucket count for the approximate repetition
// table, sized per spec.md so collisions stay rare across a single game.
const repetitionSize = 70001

// historyEntry is one played ply: the move, what Position.Unmake needs to
// reverse it, and the Board-level bookkeeping (hash, lastCapOrPawn) from
// just before the move, so PopMove can restore it without recomputation.
type historyEntry struct {
	move              Move
	unmove            UnmoveInfo
	prevHash          uint32
	prevLastCapOrPawn int
}

// Board wraps a Position with the game-level state spec.md assigns to it:
// side to move, ply, move history, draw bookkeeping, and the incrementally
// maintained hash plus its approximate repetition table. Position itself
// knows nothing about whose move it is; Board is the only thing that
// mutates via PushMove/PopMove during play.
type Board struct {
	zobrist *ZobristTable
	pos     *Position

	turn Color
	ply  int

	// plyOffset is the number of half-moves played before this Board's ply
	// 0, used only to report a PGN-style fullmove number when loaded from a
	// FEN with a nonzero fullmove count.
	plyOffset int

	hash          uint32
	lastCapOrPawn int
	history       []historyEntry
	repetition    [repetitionSize]byte

	initialFEN    string
	hasInitialFEN bool
	editPly       int
}

// NewBoard returns a Board in the standard starting position.
func NewBoard(zt *ZobristTable) *Board {
	pos := NewInitialPosition()
	b := &Board{zobrist: zt, pos: pos, turn: White}
	b.hash = zt.CalcHash(pos, White)
	b.bumpRepetition()
	return b
}

// NewEditedBoard returns a Board seeded from an explicit position (as read
// from a FEN), recording the edit so repetition detection -- which needs an
// unbroken move history back to a known start -- is disabled for this game,
// per spec.md's documented limitation.
func NewEditedBoard(zt *ZobristTable, pos *Position, turn Color, fullmoveNumber, halfmoveClock int, fen string) *Board {
	b := &Board{
		zobrist:       zt,
		pos:           pos,
		turn:          turn,
		initialFEN:    fen,
		hasInitialFEN: true,
		lastCapOrPawn: -halfmoveClock,
	}
	b.plyOffset = (fullmoveNumber - 1) * 2
	if turn == Black {
		b.plyOffset++
	}
	b.hash = zt.CalcHash(pos, turn)
	return b
}

func (b *Board) Position() *Position { return b.pos }
func (b *Board) Turn() Color         { return b.turn }
func (b *Board) Ply() int            { return b.ply }
func (b *Board) Hash() uint32        { return b.hash }
func (b *Board) IsEdited() bool      { return b.hasInitialFEN }

// HalfmoveClock is the PGN halfmove clock: plies since the last capture or
// pawn advance.
func (b *Board) HalfmoveClock() int { return b.ply - b.lastCapOrPawn }

// FullmoveNumber is the PGN fullmove number for the position about to be
// played.
func (b *Board) FullmoveNumber() int {
	return (b.plyOffset+b.ply)/2 + 1
}

// InitialFEN returns the FEN the board was loaded from, if edited.
func (b *Board) InitialFEN() (string, bool) {
	return b.initialFEN, b.hasInitialFEN
}

// MoveHistory returns the moves played since creation (or since the edit,
// for an edited board), oldest first.
func (b *Board) MoveHistory() []Move {
	out := make([]Move, len(b.history))
	for i, e := range b.history {
		out[i] = e.move
	}
	return out
}

// HasCastled reports whether color has castled at any point in this game.
func (b *Board) HasCastled(c Color) bool {
	for _, e := range b.history {
		if e.move.IsCastle() && e.move.Piece.Color() == c {
			return true
		}
	}
	return false
}

// PushMove applies a pseudo-legal move and reports whether it was legal
// (did not leave the mover's own king attacked). On an illegal move, the
// position is restored before returning false -- callers need not retry.
func (b *Board) PushMove(m Move) bool {
	u := b.pos.Make(m)
	mover := m.Piece.Color()
	if b.pos.IsAttacked(mover.Opponent(), b.pos.King(mover)) {
		b.pos.Unmake(m, u)
		return false
	}

	newHash := b.zobrist.Move(b.hash, b.pos, mover, m, u)
	b.history = append(b.history, historyEntry{
		move:              m,
		unmove:            u,
		prevHash:          b.hash,
		prevLastCapOrPawn: b.lastCapOrPawn,
	})

	if m.IsCapture() || m.Piece.Kind() == Pawn {
		b.lastCapOrPawn = b.ply + 1
	}
	b.hash = newHash
	b.turn = mover.Opponent()
	b.ply++
	if !b.hasInitialFEN {
		b.bumpRepetition()
	}
	return true
}

// PopMove undoes the last pushed move, restoring state bit-for-bit
// including the cached hash and repetition byte. Reports false if there is
// no move to undo.
func (b *Board) PopMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	e := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	if !b.hasInitialFEN {
		b.unbumpRepetition()
	}
	b.pos.Unmake(e.move, e.unmove)
	b.turn = e.move.Piece.Color()
	b.ply--
	b.hash = e.prevHash
	b.lastCapOrPawn = e.prevLastCapOrPawn
	return e.move, true
}

// Fork returns a deep, independent copy that shares only the read-only
// Zobrist table.
func (b *Board) Fork() *Board {
	c := &Board{
		zobrist:       b.zobrist,
		pos:           b.pos.Clone(),
		turn:          b.turn,
		ply:           b.ply,
		plyOffset:     b.plyOffset,
		hash:          b.hash,
		lastCapOrPawn: b.lastCapOrPawn,
		initialFEN:    b.initialFEN,
		hasInitialFEN: b.hasInitialFEN,
		editPly:       b.editPly,
		repetition:    b.repetition, // array, copied by value
	}
	c.history = append([]historyEntry(nil), b.history...)
	return c
}

// LegalMoves generates every legal move: pseudo-legal moves with the ones
// that leave the mover's own king attacked filtered out, by a trial
// push/pop rather than a scratch board copy.
func (b *Board) LegalMoves() *MoveList {
	pseudo := GenerateMoves(b.pos, b.turn)
	var legal MoveList
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		u := b.pos.Make(m)
		ok := !b.pos.IsAttacked(m.Piece.Color().Opponent(), b.pos.King(m.Piece.Color()))
		b.pos.Unmake(m, u)
		if ok {
			legal.Add(m)
		}
	}
	return &legal
}

func (b *Board) IsLegal(m Move) bool {
	return b.LegalMoves().IsLegal(m)
}

// IsDefiniteDraw reports the material draw rule, the 50-move rule, and
// threefold repetition. The repetition counter is approximate (a 4-bit
// saturating count keyed by hash bucket and side to move); a count of 3 or
// more triggers an exact recount by replaying the game from its start,
// per spec.md. Repetition detection is disabled for an edited board, since
// there is no move history back to a known starting position.
func (b *Board) IsDefiniteDraw() bool {
	if b.pos.HasInsufficientMaterial() {
		return true
	}
	if b.ply-b.lastCapOrPawn >= 100 {
		return true
	}
	if !b.hasInitialFEN && b.approxRepetitionCount() >= 3 {
		return b.exactRepetitionCount() >= 3
	}
	return false
}

// Result reports the game outcome: Ongoing while legal moves remain and no
// draw condition holds, else checkmate/stalemate/draw.
func (b *Board) Result() Result {
	if b.IsDefiniteDraw() {
		return Draw
	}
	if b.LegalMoves().Len() > 0 {
		return Ongoing
	}
	if b.pos.IsChecked(b.turn) {
		if b.turn == White {
			return BlackWins
		}
		return WhiteWins
	}
	return Draw
}

func (b *Board) GameIsOver() bool {
	return b.Result() != Ongoing
}

func (b *Board) String() string {
	return b.pos.String()
}

// bumpRepetition and unbumpRepetition maintain the two 4-bit saturating
// counters (one per side to move) packed into each repetition-table byte,
// keyed by the current cached hash -- an approximate repeat detector, per
// spec.md.
func (b *Board) bumpRepetition() {
	idx := b.hash % repetitionSize
	v := b.repetition[idx]
	if b.turn == White {
		if v&0x0F < 0x0F {
			v++
		}
	} else {
		if v&0xF0 < 0xF0 {
			v += 0x10
		}
	}
	b.repetition[idx] = v
}

func (b *Board) unbumpRepetition() {
	idx := b.hash % repetitionSize
	v := b.repetition[idx]
	if b.turn == White {
		if v&0x0F > 0 {
			v--
		}
	} else {
		if v&0xF0 > 0 {
			v -= 0x10
		}
	}
	b.repetition[idx] = v
}

func (b *Board) approxRepetitionCount() int {
	idx := b.hash % repetitionSize
	v := b.repetition[idx]
	if b.turn == White {
		return int(v & 0x0F)
	}
	return int((v >> 4) & 0x0F)
}

// exactRepetitionCount replays every move played so far from the initial
// position, counting how many times the resulting (position, side to move)
// matched the current one -- the authoritative recount spec.md calls for
// once the approximate counter suggests a threefold repetition.
func (b *Board) exactRepetitionCount() int {
	if b.hasInitialFEN {
		return 1
	}
	replay := NewInitialPosition()
	turn := White
	count := 0
	if turn == b.turn && replay.Equals(b.pos) {
		count++
	}
	for _, e := range b.history {
		replay.Make(e.move)
		turn = turn.Opponent()
		if turn == b.turn && replay.Equals(b.pos) {
			count++
		}
	}
	return count
}

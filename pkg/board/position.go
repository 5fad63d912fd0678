package board

import "fmt"

// Placement is a single (square, piece) pair, used to build a Position from
// a parsed FEN board section.
type Placement struct {
	Offset Offset
	Piece  Piece
}

// Position is the mailbox chess position: a 144-square array plus the
// derived state (castling rights, check flags, per-piece inventory,
// material totals, king squares, the previous move) needed to make/unmake
// moves and answer attack queries without rescanning the board. Position
// does not know whose move it is -- the color to move is implied by the
// Move passed to Make, and tracked by the owning Board.
type Position struct {
	squares   [NumCells]Piece
	castling  Castling
	whiteInCheck, blackInCheck bool
	inventory [PieceArraySize]int8
	material  [NumColors]int
	king      [NumColors]Offset
	prevMove  Move
	hasPrevMove bool
}

// NewEmptyPosition returns a position with every on-board square empty and
// every off-board square marked OffBoard.
func NewEmptyPosition() *Position {
	p := &Position{
		king: [NumColors]Offset{NullOffset, NullOffset},
	}
	for o := Offset(0); int(o) < NumCells; o++ {
		if o.IsOnBoard() {
			p.squares[o] = NoPiece
		} else {
			p.squares[o] = OffBoard
		}
	}
	return p
}

// NewPosition builds a position from a set of placements and castling/en
// passant state (as parsed from FEN), recomputing all derived state. The
// "ep" offset is the FEN en passant target square, if any; it is recorded as
// a synthetic previous Jump move so EnPassantTarget() reports it correctly.
func NewPosition(placements []Placement, castling Castling, ep Offset, epColor Color) (*Position, error) {
	p := NewEmptyPosition()
	for _, pl := range placements {
		if !pl.Offset.IsOnBoard() {
			return nil, fmt.Errorf("invalid placement offset: %v", pl.Offset)
		}
		p.squares[pl.Offset] = pl.Piece
	}
	p.castling = castling
	p.recomputeDerived()

	if ep != NullOffset {
		// Reconstruct a synthetic two-square pawn push that is consistent with the
		// claimed en passant target, so Make/Unmake and hashing see it uniformly.
		dir := PawnDir(epColor)
		from := ep - dir
		to := ep + dir
		p.prevMove = Move{From: from, To: to, Type: Jump, Piece: NewPiece(epColor, Pawn)}
		p.hasPrevMove = true
	}

	if p.king[White] == NullOffset || p.king[Black] == NullOffset {
		return nil, fmt.Errorf("position is missing a king")
	}
	return p, nil
}

// NewInitialPosition returns the standard starting position.
func NewInitialPosition() *Position {
	var placements []Placement
	backrank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := File(0); f < NumFiles; f++ {
		placements = append(placements,
			Placement{NewOffset(f, 0), NewPiece(White, backrank[f])},
			Placement{NewOffset(f, 1), NewPiece(White, Pawn)},
			Placement{NewOffset(f, 6), NewPiece(Black, Pawn)},
			Placement{NewOffset(f, 7), NewPiece(Black, backrank[f])},
		)
	}
	p, err := NewPosition(placements, FullCastlingRights, NullOffset, White)
	if err != nil {
		panic(fmt.Sprintf("invalid initial position: %v", err)) // unreachable
	}
	return p
}

// recomputeDerived rebuilds inventory, material and king offsets from
// scratch. Used after bulk placement edits (FEN load, board editing); never
// called on the Make/Unmake hot path.
func (p *Position) recomputeDerived() {
	p.inventory = [PieceArraySize]int8{}
	p.material = [NumColors]int{}
	p.king = [NumColors]Offset{NullOffset, NullOffset}

	for o := Offset(0); int(o) < NumCells; o++ {
		if !o.IsOnBoard() {
			continue
		}
		pc := p.squares[o]
		if !pc.IsValid() {
			continue
		}
		p.inventory[pc.Index()]++
		p.material[pc.Color()] += NominalValue(pc.Kind())
		if pc.Kind() == King {
			p.king[pc.Color()] = o
		}
	}
	p.whiteInCheck = p.king[White] != NullOffset && p.IsAttacked(Black, p.king[White])
	p.blackInCheck = p.king[Black] != NullOffset && p.IsAttacked(White, p.king[Black])
}

// Clone returns a deep, independent copy.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// Equals compares two positions for chess-identity: piece placement,
// castling rights and en passant target. Material/inventory/king/check
// flags are derived from placement, so they need not be compared
// separately.
func (p *Position) Equals(o *Position) bool {
	if p.squares != o.squares || p.castling != o.castling {
		return false
	}
	pep, pok := p.EnPassantTarget()
	oep, ook := o.EnPassantTarget()
	return pok == ook && pep == oep
}

// Square returns the piece on a square and whether it is occupied.
func (p *Position) Square(o Offset) (Piece, bool) {
	pc := p.squares[o]
	return pc, pc.IsValid()
}

// SetSquare writes a square directly, maintaining inventory/material/king
// bookkeeping. Used for board editing (the "edit" facility of spec.md), not
// for ordinary play -- Make/Unmake is the hot path there.
func (p *Position) SetSquare(o Offset, pc Piece) {
	old := p.squares[o]
	if old.IsValid() {
		p.inventory[old.Index()]--
		p.material[old.Color()] -= NominalValue(old.Kind())
	}
	p.squares[o] = pc
	if pc.IsValid() {
		p.inventory[pc.Index()]++
		p.material[pc.Color()] += NominalValue(pc.Kind())
		if pc.Kind() == King {
			p.king[pc.Color()] = o
		}
	}
	p.whiteInCheck = p.king[White] != NullOffset && p.IsAttacked(Black, p.king[White])
	p.blackInCheck = p.king[Black] != NullOffset && p.IsAttacked(White, p.king[Black])
}

func (p *Position) Castling() Castling {
	return p.castling
}

func (p *Position) IsChecked(c Color) bool {
	if c == White {
		return p.whiteInCheck
	}
	return p.blackInCheck
}

func (p *Position) King(c Color) Offset {
	return p.king[c]
}

func (p *Position) Material(c Color) int {
	return p.material[c]
}

func (p *Position) Count(c Color, k Kind) int {
	return int(p.inventory[NewPiece(c, k).Index()])
}

// PrevMove returns the last move applied, if any.
func (p *Position) PrevMove() (Move, bool) {
	return p.prevMove, p.hasPrevMove
}

// EnPassantTarget returns the square a pawn may capture onto en passant,
// i.e. the square the previous move's pawn jumped over, if the previous
// move was a two-square pawn push.
func (p *Position) EnPassantTarget() (Offset, bool) {
	return enPassantTargetOf(p.prevMove, p.hasPrevMove)
}

// enPassantTargetOf derives the en passant target square from a candidate
// previous move, shared by EnPassantTarget and the incremental hash update.
func enPassantTargetOf(m Move, has bool) (Offset, bool) {
	if !has || m.Type != Jump {
		return NullOffset, false
	}
	dir := PawnDir(m.Piece.Color())
	return m.From + dir, true
}

// HasInsufficientMaterial reports the material draw condition, per spec.md
// §4.4: with no pawns, rooks, or queens on board, a side reduced to a bare
// king is a draw unless the other side has bishop+knight together or two
// or more bishops (the only forces that can theoretically mate a lone
// king); if neither side is bare, it is a draw regardless of how many
// minors each holds (KBN vs KB is a draw, not just KB vs KB).
func (p *Position) HasInsufficientMaterial() bool {
	for c := Color(0); c < NumColors; c++ {
		if p.Count(c, Pawn) > 0 || p.Count(c, Rook) > 0 || p.Count(c, Queen) > 0 {
			return false
		}
	}

	wn, wb := p.Count(White, Knight), p.Count(White, Bishop)
	bn, bb := p.Count(Black, Knight), p.Count(Black, Bishop)

	if wn == 0 && wb == 0 {
		return !forceCanMate(bn, bb)
	}
	if bn == 0 && bb == 0 {
		return !forceCanMate(wn, wb)
	}
	return true
}

// forceCanMate reports whether n knights and b bishops, with no rooks,
// queens, or pawns, are theoretically enough to mate a lone king: a
// bishop and a knight together, or two or more bishops. Any lesser force,
// including any number of knights alone, cannot force mate.
func forceCanMate(n, b int) bool {
	if n >= 1 && b >= 1 {
		return true
	}
	return b >= 2
}

func (p *Position) String() string {
	var sb [NumRanks]string
	for r := Rank(NumRanks - 1); ; r-- {
		row := ""
		for f := File(0); f < NumFiles; f++ {
			pc := p.squares[NewOffset(f, r)]
			row += pc.String()
		}
		sb[r] = row
		if r == 0 {
			break
		}
	}
	out := ""
	for r := Rank(NumRanks - 1); ; r-- {
		out += sb[r] + "\n"
		if r == 0 {
			break
		}
	}
	return out
}

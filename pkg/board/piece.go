// Package board contains the mailbox chess position representation, move
// generation, and the game-level history/draw bookkeeping on top of it.
package board

import "fmt"

// Color represents the playing side. 1 bit.
type Color uint8

const (
	White Color = iota
	Black
)

// NumColors is the number of colors.
const NumColors = 2

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Unit returns the signed unit for the color: +1 for White, -1 for Black.
func (c Color) Unit() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Kind is a piece kind without color. 3 bits.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// NumKinds is the number of piece kinds, not counting NoKind.
const NumKinds = 6

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return " "
	}
}

// Piece represents one of the 12 colored piece kinds, EMPTY or OFFBOARD. The
// low 3 bits hold the Kind and bit 3 holds the Color, so Color and Kind are
// each independently testable with a mask. 4 bits.
type Piece uint8

const (
	NoPiece Piece = 0

	WP Piece = Piece(Pawn)
	WN Piece = Piece(Knight)
	WB Piece = Piece(Bishop)
	WR Piece = Piece(Rook)
	WQ Piece = Piece(Queen)
	WK Piece = Piece(King)

	BP Piece = Piece(Pawn) | blackBit
	BN Piece = Piece(Knight) | blackBit
	BB Piece = Piece(Bishop) | blackBit
	BR Piece = Piece(Rook) | blackBit
	BQ Piece = Piece(Queen) | blackBit
	BK Piece = Piece(King) | blackBit

	// OffBoard marks mailbox border sentinels. Never a valid board occupant.
	OffBoard Piece = 0x0F
)

const (
	kindMask  = 0x07
	blackBit  = 0x08
	OffBoardV = uint8(OffBoard)
)

// PieceArraySize is the number of (color, kind) inventory slots (SPIECE_INDEX range).
const PieceArraySize = int(NumColors) * NumKinds

// NewPiece builds a piece from color and kind. Kind must not be NoKind.
func NewPiece(c Color, k Kind) Piece {
	if c == Black {
		return Piece(k) | blackBit
	}
	return Piece(k)
}

func (p Piece) IsEmpty() bool {
	return p == NoPiece
}

func (p Piece) IsOffBoard() bool {
	return p == OffBoard
}

func (p Piece) IsValid() bool {
	return p != NoPiece && p != OffBoard
}

func (p Piece) Kind() Kind {
	return Kind(p & kindMask)
}

func (p Piece) Color() Color {
	if p&blackBit != 0 {
		return Black
	}
	return White
}

// Index maps a valid piece to its PIECE_ARRAY_SIZE inventory slot, 0..11:
// white pawn..king are 0..5, black pawn..king are 6..11. Invalid for
// NoPiece/OffBoard.
func (p Piece) Index() int {
	idx := int(p.Kind()) - 1
	if p.Color() == Black {
		idx += NumKinds
	}
	return idx
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'P':
		return WP, true
	case 'N':
		return WN, true
	case 'B':
		return WB, true
	case 'R':
		return WR, true
	case 'Q':
		return WQ, true
	case 'K':
		return WK, true
	case 'p':
		return BP, true
	case 'n':
		return BN, true
	case 'b':
		return BB, true
	case 'r':
		return BR, true
	case 'q':
		return BQ, true
	case 'k':
		return BK, true
	default:
		return NoPiece, false
	}
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	if p.IsOffBoard() {
		return "x"
	}
	s := p.Kind().String()
	if p.Color() == White {
		return fmt.Sprintf("%c", []rune(s)[0]-32) // upper-case
	}
	return s
}

// NominalValue is the standard material value of a kind, in pawns. King is
// given an arbitrary large value so it dominates naive material sums without
// special-casing it.
func NominalValue(k Kind) int {
	switch k {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return 100
	default:
		return 0
	}
}

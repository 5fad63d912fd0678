package board

import "fmt"

// File is a board file, a=0..h=7.
type File int8

// Rank is a board rank, 1=0..8=7.
type Rank int8

const (
	NumFiles = 8
	NumRanks = 8
)

func ParseFile(r rune) (File, bool) {
	if r < 'a' || r > 'h' {
		return 0, false
	}
	return File(r - 'a'), true
}

func ParseRank(r rune) (Rank, bool) {
	if r < '1' || r > '8' {
		return 0, false
	}
	return Rank(r - '1'), true
}

func (f File) String() string {
	return fmt.Sprintf("%c", 'a'+byte(f))
}

func (r Rank) String() string {
	return fmt.Sprintf("%c", '1'+byte(r))
}

// Offset is a coordinate into the 12x12 mailbox: files a..h map to x=2..9,
// ranks 1..8 map to y=2..9. The two-square-wide border holds OffBoard
// sentinels, which terminate ray scans without explicit bounds checks.
type Offset int16

const (
	BoardWidth = 12
	NumCells   = BoardWidth * BoardWidth // 144

	// NullOffset is never a valid board square; it marks "no offset" (e.g. no king, no prior move).
	NullOffset Offset = -1
)

// Mailbox directions, as deltas in a 12-wide board.
const (
	DirN  Offset = 12
	DirS  Offset = -12
	DirE  Offset = 1
	DirW  Offset = -1
	DirNE Offset = 13
	DirNW Offset = 11
	DirSE Offset = -11
	DirSW Offset = -13
)

// KnightDirs are the eight knight jump deltas on a 12-wide board.
var KnightDirs = [8]Offset{23, 25, 14, 10, -23, -25, -14, -10}

// KingDirs are the eight adjacent-square deltas.
var KingDirs = [8]Offset{DirN, DirS, DirE, DirW, DirNE, DirNW, DirSE, DirSW}

// BishopDirs / RookDirs are the sliding-piece ray directions.
var BishopDirs = [4]Offset{DirNE, DirNW, DirSE, DirSW}
var RookDirs = [4]Offset{DirN, DirS, DirE, DirW}

// NewOffset builds the mailbox offset for a file/rank pair.
func NewOffset(f File, r Rank) Offset {
	return Offset((int(r)+2)*BoardWidth + int(f) + 2)
}

func ParseOffset(f, r rune) (Offset, error) {
	file, ok := ParseFile(f)
	if !ok {
		return 0, fmt.Errorf("invalid file: %q", f)
	}
	rank, ok := ParseRank(r)
	if !ok {
		return 0, fmt.Errorf("invalid rank: %q", r)
	}
	return NewOffset(file, rank), nil
}

func ParseOffsetStr(str string) (Offset, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %q", str)
	}
	return ParseOffset(runes[0], runes[1])
}

// IsOnBoard reports whether the offset lies within the inner 8x8.
func (o Offset) IsOnBoard() bool {
	x, y := int(o)%BoardWidth, int(o)/BoardWidth
	return x >= 2 && x <= 9 && y >= 2 && y <= 9
}

func (o Offset) File() File {
	return File(int(o)%BoardWidth - 2)
}

func (o Offset) Rank() Rank {
	return Rank(int(o)/BoardWidth - 2)
}

func (o Offset) String() string {
	if !o.IsOnBoard() {
		return "-"
	}
	return fmt.Sprintf("%v%v", o.File(), o.Rank())
}

// PromotionRank is the rank on which a pawn of the given color promotes.
func PromotionRank(c Color) Rank {
	if c == White {
		return Rank(7)
	}
	return Rank(0)
}

// PawnStartRank is the rank on which a pawn of the given color starts.
func PawnStartRank(c Color) Rank {
	if c == White {
		return Rank(1)
	}
	return Rank(6)
}

// PawnDir is the forward direction for a pawn of the given color.
func PawnDir(c Color) Offset {
	if c == White {
		return DirN
	}
	return DirS
}

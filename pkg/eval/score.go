package eval

import (
	"fmt"

	"github.com/corvidae/boxmate/pkg/board"
)

// Score is a signed move or position score. Positive favors white. Eval's
// scale is set by the Gene's piece values: at the default PawnValue of 100 a
// pawn is worth 100. Score must be within +/- 1,000,000.
type Score float32

const (
	NegInf         = MinScore - 1
	MinScore Score = -1000000
	MaxScore Score = 1000000
	Inf            = MaxScore + 1

	// Win is the score of an immediate checkmate. The search encodes a mate
	// found at ply d from the root as Win minus a per-ply penalty, so a
	// shorter forced mate always outscores a longer one and a found mate
	// stays stable across iterative-deepening iterations.
	Win Score = 900000
)

func (s Score) String() string {
	return fmt.Sprintf("%.2f", s)
}

// Unit returns the signed unit for the color: 1 for White and -1 for Black.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Crop crops a Score into [MinScore;MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// Package notation parses and formats moves in the two textual forms used
// at the system's boundaries: long algebraic coordinate notation ("e2e4",
// "e7e8q") for the command protocol, and PGN move text ("Nf3", "O-O", "exd5",
// "e8=Q+") for game records and external import.
package notation

import (
	"fmt"
	"strings"

	"github.com/corvidae/boxmate/pkg/board"
)

// ParseLongAlgebraic parses coordinate notation and resolves it against b's
// legal moves: board.ParseMove decodes the bare from/to/promotion, and the
// result is matched against exactly one legal move carrying the same
// from/to/promotion. Zero or more than one match is an error, since a bare
// coordinate move carries no capture/castle/en-passant context of its own.
func ParseLongAlgebraic(b *board.Board, str string) (board.Move, error) {
	parsed, err := board.ParseMove(str)
	if err != nil {
		return board.Move{}, err
	}

	legal := b.LegalMoves()
	var match board.Move
	found := false
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)
		if m.From == parsed.From && m.To == parsed.To && m.Promotion == parsed.Promotion {
			if found {
				return board.Move{}, fmt.Errorf("ambiguous move %q", str)
			}
			match = m
			found = true
		}
	}
	if !found {
		return board.Move{}, fmt.Errorf("illegal move %q", str)
	}
	return match, nil
}

// FormatLongAlgebraic formats m in coordinate notation, e.g. "e2e4", "e7e8q".
func FormatLongAlgebraic(m board.Move) string {
	return m.String()
}

// FormatPGN formats m, which must be legal in b, as PGN move text: "O-O" /
// "O-O-O" for castling, otherwise [piece][disambiguator]["x"]<dest>["="promo]
// plus a "+"/"#" suffix for check/mate. Disambiguation tries file, then
// rank, then both, stopping at the first that is unique among same-kind
// same-destination legal moves.
func FormatPGN(b *board.Board, m board.Move) (string, error) {
	if !b.IsLegal(m) {
		return "", fmt.Errorf("not legal: %v", m)
	}

	var text string
	switch m.Type {
	case board.KingSideCastle:
		text = "O-O"
	case board.QueenSideCastle:
		text = "O-O-O"
	default:
		text = formatOrdinary(b, m)
	}

	text += checkSuffix(b, m)
	return text, nil
}

func formatOrdinary(b *board.Board, m board.Move) string {
	var sb strings.Builder

	kind := m.Piece.Kind()
	if kind == board.Pawn {
		if m.IsCapture() {
			sb.WriteString(m.From.File().String())
		}
	} else {
		sb.WriteString(strings.ToUpper(kind.String()))
		sb.WriteString(disambiguator(b, m))
	}

	if m.IsCapture() {
		sb.WriteString("x")
	}
	sb.WriteString(m.To.String())

	if m.IsPromotion() {
		sb.WriteString("=")
		sb.WriteString(strings.ToUpper(m.Promotion.String()))
	}
	return sb.String()
}

// disambiguator returns the minimal file/rank/both prefix needed to tell m
// apart from other legal moves of the same kind landing on the same square.
func disambiguator(b *board.Board, m board.Move) string {
	legal := b.LegalMoves()

	sameFile, sameRank, any := false, false, false
	for i := 0; i < legal.Len(); i++ {
		o := legal.At(i)
		if o.From == m.From || o.To != m.To || o.Piece.Kind() != m.Piece.Kind() {
			continue
		}
		any = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if !any {
		return ""
	}
	switch {
	case !sameFile:
		return m.From.File().String()
	case !sameRank:
		return m.From.Rank().String()
	default:
		return m.From.String()
	}
}

func checkSuffix(b *board.Board, m board.Move) string {
	fork := b.Fork()
	if !fork.PushMove(m) {
		return "" // unreachable for an already-legal move, but fail closed
	}
	inCheck := fork.Position().IsChecked(fork.Turn())
	if !inCheck {
		return ""
	}
	if len(fork.LegalMoves().Slice()) == 0 {
		return "#"
	}
	return "+"
}

// ParsePGN resolves PGN move text against b's legal moves by generating
// each legal move's canonical PGN text and matching on it exactly. Falls
// back to a tolerant retry stripping a trailing "+"/"#", and then -- since
// some external generators over-disambiguate -- to stripping a redundant
// file or rank character directly after the piece letter.
func ParsePGN(b *board.Board, str string) (board.Move, error) {
	if m, ok := matchPGN(b, str); ok {
		return m, nil
	}

	trimmed := strings.TrimRight(str, "+#")
	if trimmed != str {
		if m, ok := matchPGN(b, trimmed); ok {
			return m, nil
		}
	}

	if relaxed, ok := dropRedundantDisambiguator(trimmed); ok {
		if m, ok := matchPGN(b, relaxed); ok {
			return m, nil
		}
	}

	return board.Move{}, fmt.Errorf("unrecognized move %q", str)
}

func matchPGN(b *board.Board, str string) (board.Move, bool) {
	legal := b.LegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)
		text, err := FormatPGN(b, m)
		if err == nil && text == str {
			return m, true
		}
	}
	return board.Move{}, false
}

// dropRedundantDisambiguator removes the second character of str when it is
// a file or rank letter/digit following a piece letter, e.g. "Nbd7" -> "Nd7".
func dropRedundantDisambiguator(str string) (string, bool) {
	if len(str) < 3 {
		return "", false
	}
	r := rune(str[0])
	if r < 'A' || r > 'Z' || r == 'O' {
		return "", false
	}
	second := str[1]
	isFile := second >= 'a' && second <= 'h'
	isRank := second >= '1' && second <= '8'
	if !isFile && !isRank {
		return "", false
	}
	return str[:1] + str[2:], true
}

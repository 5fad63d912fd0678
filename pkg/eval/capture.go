package eval

import (
	"sort"

	"github.com/corvidae/boxmate/pkg/board"
)

// CaptureGain is the nominal material gain of a move, used for MVV/LVA move
// ordering ahead of a full Score evaluation.
func (e Eval) CaptureGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return e.pieceValue(m.Capture.Kind()) + e.pieceValue(m.Promotion) - e.pieceValue(board.Pawn)
	case board.Promotion:
		return e.pieceValue(m.Promotion) - e.pieceValue(board.Pawn)
	case board.Capture:
		return e.pieceValue(m.Capture.Kind())
	case board.EnPassantEast, board.EnPassantWest:
		return e.pieceValue(board.Pawn)
	default:
		return 0
	}
}

// Attacker is one piece of a given color that attacks a square.
type Attacker struct {
	Offset board.Offset
	Piece  board.Piece
}

// FindAttackers returns every piece of color `by` that directly attacks sq,
// by probing each ray/jump direction the same way Position.IsAttacked does.
func FindAttackers(pos *board.Position, by board.Color, sq board.Offset) []Attacker {
	var out []Attacker
	add := func(o board.Offset) {
		if pc, ok := pos.Square(o); ok && pc.Color() == by {
			out = append(out, Attacker{Offset: o, Piece: pc})
		}
	}

	dir := board.PawnDir(by)
	for _, d := range [2]board.Offset{board.DirE, board.DirW} {
		s := sq - (dir + d)
		if s.IsOnBoard() {
			if pc, ok := pos.Square(s); ok && pc == board.NewPiece(by, board.Pawn) {
				add(s)
			}
		}
	}
	for _, d := range board.KnightDirs {
		if s := sq + d; s.IsOnBoard() {
			if pc, ok := pos.Square(s); ok && pc == board.NewPiece(by, board.Knight) {
				add(s)
			}
		}
	}
	for _, d := range board.KingDirs {
		if s := sq + d; s.IsOnBoard() {
			if pc, ok := pos.Square(s); ok && pc == board.NewPiece(by, board.King) {
				add(s)
			}
		}
	}
	for _, dirs := range [2]struct {
		ds   [4]board.Offset
		k1, k2 board.Kind
	}{
		{board.BishopDirs, board.Bishop, board.Queen},
		{board.RookDirs, board.Rook, board.Queen},
	} {
		for _, d := range dirs.ds {
			for s := sq + d; s.IsOnBoard(); s += d {
				pc, ok := pos.Square(s)
				if !ok {
					continue
				}
				if pc.Color() == by && (pc.Kind() == dirs.k1 || pc.Kind() == dirs.k2) {
					add(s)
				}
				break
			}
		}
	}
	return out
}

// SortByNominalValue orders attackers by ascending material value, the
// order a static-exchange evaluation resolves captures in.
func SortByNominalValue(e Eval, attackers []Attacker) []Attacker {
	sort.SliceStable(attackers, func(i, j int) bool {
		return e.pieceValue(attackers[i].Piece.Kind()) < e.pieceValue(attackers[j].Piece.Kind())
	})
	return attackers
}

package eval

import "github.com/corvidae/boxmate/pkg/board"

// Pin represents a piece pinned against its own king: it cannot move off
// the attacker-king line without exposing the king to check.
type Pin struct {
	Attacker, Pinned, King board.Offset
}

// FindPins returns every pin against side's king: a ray from an enemy
// slider through exactly one of side's own pieces to the king.
func FindPins(pos *board.Position, side board.Color) []Pin {
	king := pos.King(side)
	if king == board.NullOffset {
		return nil
	}
	opp := side.Opponent()

	var out []Pin
	scan := func(dirs [4]board.Offset, k1, k2 board.Kind) {
		for _, d := range dirs {
			var pinned board.Offset = board.NullOffset
			s := king + d
			for s.IsOnBoard() {
				pc, ok := pos.Square(s)
				if !ok {
					s += d
					continue
				}
				if pc.Color() == side {
					if pinned != board.NullOffset {
						break // two own pieces in the way: no pin possible
					}
					pinned = s
					s += d
					continue
				}
				// enemy piece: either the pinning slider, or a blocker that ends the ray.
				if pinned != board.NullOffset && pc.Color() == opp && (pc.Kind() == k1 || pc.Kind() == k2) {
					out = append(out, Pin{Attacker: s, Pinned: pinned, King: king})
				}
				break
			}
		}
	}

	scan(board.BishopDirs, board.Bishop, board.Queen)
	scan(board.RookDirs, board.Rook, board.Queen)
	return out
}

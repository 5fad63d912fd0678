// Package fen reads and writes Forsyth-Edwards Notation for the mailbox
// board representation, including the validation spec.md calls for: king
// count, pawns off the back ranks, castling rights consistent with king/rook
// home squares, and the side not to move not already in check.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidae/boxmate/pkg/board"
)

// Initial is the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Fields holds the FEN fields beyond the board itself.
type Fields struct {
	Turn           board.Color
	Castling       board.Castling
	EnPassant      board.Offset
	HalfmoveClock  int
	FullmoveNumber int
}

// Decode parses a FEN string into a Position and its accompanying fields.
// Loading a position this way is always treated as a board edit by the
// caller (DecodeBoard) -- spec.md's repetition-detection limitation applies
// regardless of whether the FEN happens to be the standard starting
// position.
func Decode(s string) (*board.Position, Fields, error) {
	fs := strings.Fields(s)
	if len(fs) < 4 || len(fs) > 6 {
		return nil, Fields{}, fmt.Errorf("fen: wrong number of fields in %q", s)
	}

	placements, err := decodePlacements(fs[0])
	if err != nil {
		return nil, Fields{}, fmt.Errorf("fen: %w", err)
	}

	turn, err := decodeColor(fs[1])
	if err != nil {
		return nil, Fields{}, fmt.Errorf("fen: %w", err)
	}

	castling, ok := board.ParseCastling(fs[2])
	if !ok {
		return nil, Fields{}, fmt.Errorf("fen: bad castling field %q", fs[2])
	}

	ep := board.NullOffset
	if fs[3] != "-" {
		ep, err = board.ParseOffsetStr(fs[3])
		if err != nil {
			return nil, Fields{}, fmt.Errorf("fen: bad en passant field %q: %w", fs[3], err)
		}
	}

	halfmove, fullmove := 0, 1
	if len(fs) >= 5 {
		if halfmove, err = strconv.Atoi(fs[4]); err != nil {
			return nil, Fields{}, fmt.Errorf("fen: bad halfmove clock %q", fs[4])
		}
	}
	if len(fs) == 6 {
		if fullmove, err = strconv.Atoi(fs[5]); err != nil {
			return nil, Fields{}, fmt.Errorf("fen: bad fullmove number %q", fs[5])
		}
	}

	pos, err := board.NewPosition(placements, castling, ep, turn.Opponent())
	if err != nil {
		return nil, Fields{}, fmt.Errorf("fen: %w", err)
	}
	if err := validate(pos, castling, turn); err != nil {
		return nil, Fields{}, err
	}

	return pos, Fields{
		Turn:           turn,
		Castling:       castling,
		EnPassant:      ep,
		HalfmoveClock:  halfmove,
		FullmoveNumber: fullmove,
	}, nil
}

// DecodeBoard parses a FEN and wraps it as an edited Board.
func DecodeBoard(zt *board.ZobristTable, s string) (*board.Board, error) {
	pos, f, err := Decode(s)
	if err != nil {
		return nil, err
	}
	return board.NewEditedBoard(zt, pos, f.Turn, f.FullmoveNumber, f.HalfmoveClock, s), nil
}

// Encode formats a Board as a FEN string.
func Encode(b *board.Board) string {
	pos := b.Position()

	var ranks []string
	for r := board.Rank(7); ; r-- {
		row, empty := "", 0
		for f := board.File(0); f < board.NumFiles; f++ {
			pc, ok := pos.Square(board.NewOffset(f, r))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				row += strconv.Itoa(empty)
				empty = 0
			}
			row += pc.String()
		}
		if empty > 0 {
			row += strconv.Itoa(empty)
		}
		ranks = append(ranks, row)
		if r == 0 {
			break
		}
	}

	turn := "w"
	if b.Turn() == board.Black {
		turn = "b"
	}

	ep := "-"
	if sq, ok := pos.EnPassantTarget(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%s %s %s %s %d %d",
		strings.Join(ranks, "/"), turn, pos.Castling().String(), ep, b.HalfmoveClock(), b.FullmoveNumber())
}

func decodePlacements(field string) ([]board.Placement, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != board.NumRanks {
		return nil, fmt.Errorf("board field %q does not have 8 ranks", field)
	}

	var placements []board.Placement
	for i, rankStr := range ranks {
		rank := board.Rank(board.NumRanks - 1 - i)
		file := board.File(0)
		for _, r := range rankStr {
			switch {
			case r >= '1' && r <= '8':
				file += board.File(r - '0')
			default:
				pc, ok := board.ParsePiece(r)
				if !ok {
					return nil, fmt.Errorf("invalid piece character %q", r)
				}
				if int(file) >= board.NumFiles {
					return nil, fmt.Errorf("rank %q overflows 8 files", rankStr)
				}
				placements = append(placements, board.Placement{Offset: board.NewOffset(file, rank), Piece: pc})
				file++
			}
		}
		if int(file) != board.NumFiles {
			return nil, fmt.Errorf("rank %q does not sum to 8 files", rankStr)
		}
	}
	return placements, nil
}

func decodeColor(s string) (board.Color, error) {
	switch s {
	case "w":
		return board.White, nil
	case "b":
		return board.Black, nil
	default:
		return 0, fmt.Errorf("bad active color %q", s)
	}
}

// validate applies the checks spec.md calls for beyond what NewPosition
// already guarantees (both kings present): no pawns on the back ranks, sane
// piece counts, castling rights consistent with king/rook home squares, and
// the side not to move not already in check.
func validate(pos *board.Position, castling board.Castling, turn board.Color) error {
	for f := board.File(0); f < board.NumFiles; f++ {
		for _, r := range [2]board.Rank{0, board.NumRanks - 1} {
			if pc, ok := pos.Square(board.NewOffset(f, r)); ok && pc.Kind() == board.Pawn {
				return fmt.Errorf("fen: pawn on back rank")
			}
		}
	}
	for c := board.Color(0); c < board.NumColors; c++ {
		if pos.Count(c, board.Pawn) > 8 {
			return fmt.Errorf("fen: more than 8 pawns for %v", c)
		}
		if pos.Count(c, board.King) != 1 {
			return fmt.Errorf("fen: wrong king count for %v", c)
		}
	}

	type check struct {
		right    board.Castling
		color    board.Color
		kingSide bool
	}
	for _, c := range []check{
		{board.WhiteKingSide, board.White, true},
		{board.WhiteQueenSide, board.White, false},
		{board.BlackKingSide, board.Black, true},
		{board.BlackQueenSide, board.Black, false},
	} {
		if castling.Allows(c.right) && !hasCastlingHomeSquares(pos, c.color, c.kingSide) {
			return fmt.Errorf("fen: castling right %v not consistent with king/rook home squares", c.right)
		}
	}

	if pos.IsChecked(turn.Opponent()) {
		return fmt.Errorf("fen: side not to move is in check")
	}
	return nil
}

func hasCastlingHomeSquares(pos *board.Position, c board.Color, kingSide bool) bool {
	rank := board.Rank(0)
	if c == board.Black {
		rank = board.Rank(board.NumRanks - 1)
	}
	if pc, ok := pos.Square(board.NewOffset(4, rank)); !ok || pc != board.NewPiece(c, board.King) {
		return false
	}
	rookFile := board.File(board.NumFiles - 1)
	if !kingSide {
		rookFile = 0
	}
	pc, ok := pos.Square(board.NewOffset(rookFile, rank))
	return ok && pc == board.NewPiece(c, board.Rook)
}

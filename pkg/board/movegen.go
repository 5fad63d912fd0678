package board

// queenDirs combines the bishop and rook ray directions.
var queenDirs = [8]Offset{DirNE, DirNW, DirSE, DirSW, DirN, DirS, DirE, DirW}

// promotionKinds are the four pieces a pawn may promote to.
var promotionKinds = [4]Kind{Queen, Rook, Bishop, Knight}

// GenerateMoves returns every pseudo-legal move for mover in pos: moves that
// obey piece movement rules but may leave the mover's own king in check.
// Board.PushMove filters those out via Position.Make + IsAttacked + Unmake,
// so GenerateMoves itself never needs to simulate a move to check legality.
func GenerateMoves(pos *Position, mover Color) MoveList {
	var list MoveList
	for o := Offset(0); int(o) < NumCells; o++ {
		if !o.IsOnBoard() {
			continue
		}
		pc := pos.squares[o]
		if !pc.IsValid() || pc.Color() != mover {
			continue
		}
		switch pc.Kind() {
		case Pawn:
			genPawnMoves(pos, mover, o, pc, &list)
		case Knight:
			genStepMoves(pos, mover, o, pc, KnightDirs[:], &list)
		case Bishop:
			genSlideMoves(pos, mover, o, pc, BishopDirs[:], &list)
		case Rook:
			genSlideMoves(pos, mover, o, pc, RookDirs[:], &list)
		case Queen:
			genSlideMoves(pos, mover, o, pc, queenDirs[:], &list)
		case King:
			genStepMoves(pos, mover, o, pc, KingDirs[:], &list)
			genCastleMoves(pos, mover, &list)
		}
	}
	return list
}

func genStepMoves(pos *Position, mover Color, from Offset, pc Piece, dirs []Offset, list *MoveList) {
	for _, d := range dirs {
		to := from + d
		if !to.IsOnBoard() {
			continue
		}
		target := pos.squares[to]
		if target.IsEmpty() {
			list.Add(Move{From: from, To: to, Type: Normal, Piece: pc})
		} else if target.Color() != mover {
			list.Add(Move{From: from, To: to, Type: Capture, Piece: pc, Capture: target})
		}
	}
}

func genSlideMoves(pos *Position, mover Color, from Offset, pc Piece, dirs []Offset, list *MoveList) {
	for _, d := range dirs {
		for to := from + d; to.IsOnBoard(); to += d {
			target := pos.squares[to]
			if target.IsEmpty() {
				list.Add(Move{From: from, To: to, Type: Normal, Piece: pc})
				continue
			}
			if target.Color() != mover {
				list.Add(Move{From: from, To: to, Type: Capture, Piece: pc, Capture: target})
			}
			break
		}
	}
}

func genPawnMoves(pos *Position, mover Color, from Offset, pc Piece, list *MoveList) {
	dir := PawnDir(mover)
	promoRank := PromotionRank(mover)

	if to := from + dir; to.IsOnBoard() && pos.squares[to].IsEmpty() {
		addPawnMove(list, from, to, pc, Push, promoRank, NoPiece)

		if from.Rank() == PawnStartRank(mover) {
			if to2 := to + dir; to2.IsOnBoard() && pos.squares[to2].IsEmpty() {
				list.Add(Move{From: from, To: to2, Type: Jump, Piece: pc})
			}
		}
	}

	for _, d := range [2]Offset{DirE, DirW} {
		to := from + dir + d
		if !to.IsOnBoard() {
			continue
		}
		if target := pos.squares[to]; target.IsValid() && target.Color() != mover {
			addPawnMove(list, from, to, pc, Capture, promoRank, target)
		}
	}

	if ep, ok := pos.EnPassantTarget(); ok {
		for _, ea := range [2]struct {
			d Offset
			t MoveType
		}{{DirE, EnPassantEast}, {DirW, EnPassantWest}} {
			if to := from + dir + ea.d; to == ep {
				capSq := ep - dir
				list.Add(Move{From: from, To: ep, Type: ea.t, Piece: pc, Capture: pos.squares[capSq]})
			}
		}
	}
}

// addPawnMove records a pawn push or capture, expanding into the four
// promotion flavours when the destination is on the promotion rank.
func addPawnMove(list *MoveList, from, to Offset, pc Piece, quietType MoveType, promoRank Rank, capture Piece) {
	promotes := to.Rank() == promoRank
	t := quietType
	if capture.IsValid() {
		t = Capture
	}
	if !promotes {
		list.Add(Move{From: from, To: to, Type: t, Piece: pc, Capture: capture})
		return
	}
	promoType := Promotion
	if capture.IsValid() {
		promoType = CapturePromotion
	}
	for _, k := range promotionKinds {
		list.Add(Move{From: from, To: to, Type: promoType, Piece: pc, Promotion: k, Capture: capture})
	}
}

// genCastleMoves generates both castle moves for mover's king, if the
// intervening squares are empty and the king does not start, pass through
// or land on an attacked square. The king being in check now is covered by
// the "does not start on an attacked square" test.
func genCastleMoves(pos *Position, mover Color, list *MoveList) {
	rank := homeRank(mover)
	kingFrom := NewOffset(4, rank)
	if pos.king[mover] != kingFrom || pos.IsChecked(mover) {
		return
	}
	opp := mover.Opponent()
	king := pos.squares[kingFrom]

	if pos.castling.Allows(kingSideRight(mover)) {
		f, g := NewOffset(5, rank), NewOffset(6, rank)
		if pos.squares[f].IsEmpty() && pos.squares[g].IsEmpty() &&
			!pos.IsAttacked(opp, f) && !pos.IsAttacked(opp, g) {
			list.Add(Move{From: kingFrom, To: g, Type: KingSideCastle, Piece: king})
		}
	}
	if pos.castling.Allows(queenSideRight(mover)) {
		d, c, b := NewOffset(3, rank), NewOffset(2, rank), NewOffset(1, rank)
		if pos.squares[d].IsEmpty() && pos.squares[c].IsEmpty() && pos.squares[b].IsEmpty() &&
			!pos.IsAttacked(opp, d) && !pos.IsAttacked(opp, c) {
			list.Add(Move{From: kingFrom, To: c, Type: QueenSideCastle, Piece: king})
		}
	}
}

package board

// homeRank is the back rank for a color.
func homeRank(c Color) Rank {
	if c == White {
		return Rank(0)
	}
	return Rank(7)
}

func castleSquares(mover Color, t MoveType) (kingFrom, kingTo, rookFrom, rookTo Offset) {
	rank := homeRank(mover)
	kingFrom = NewOffset(File(4), rank)
	if t == KingSideCastle {
		return kingFrom, NewOffset(6, rank), NewOffset(7, rank), NewOffset(5, rank)
	}
	return kingFrom, NewOffset(2, rank), NewOffset(0, rank), NewOffset(3, rank)
}

func (p *Position) placePiece(o Offset, pc Piece) {
	p.squares[o] = pc
	if pc.IsValid() {
		p.inventory[pc.Index()]++
		p.material[pc.Color()] += NominalValue(pc.Kind())
		if pc.Kind() == King {
			p.king[pc.Color()] = o
		}
	}
}

func (p *Position) removePiece(o Offset) Piece {
	pc := p.squares[o]
	p.squares[o] = NoPiece
	if pc.IsValid() {
		p.inventory[pc.Index()]--
		p.material[pc.Color()] -= NominalValue(pc.Kind())
	}
	return pc
}

func (p *Position) applyCastle(mover Color, t MoveType) {
	kingFrom, kingTo, rookFrom, rookTo := castleSquares(mover, t)
	king := p.removePiece(kingFrom)
	rook := p.removePiece(rookFrom)
	p.placePiece(kingTo, king)
	p.placePiece(rookTo, rook)
}

func (p *Position) undoCastle(mover Color, t MoveType) {
	kingFrom, kingTo, rookFrom, rookTo := castleSquares(mover, t)
	king := p.removePiece(kingTo)
	rook := p.removePiece(rookTo)
	p.placePiece(kingFrom, king)
	p.placePiece(rookFrom, rook)
}

// updateCastlingRights clears rights invalidated by a king or rook move,
// including a rook moving away from (or castling from) its home square.
func (p *Position) updateCastlingRights(mover Color, m Move) {
	switch m.Piece.Kind() {
	case King:
		p.castling &^= kingSideRight(mover) | queenSideRight(mover)
	case Rook:
		p.clearRookHomeRight(mover, m.From)
	}
}

// clearRookHomeRight clears the castling right associated with a rook home
// square, whether the rook left it voluntarily or was captured on it.
func (p *Position) clearRookHomeRight(color Color, sq Offset) {
	rank := homeRank(color)
	switch sq {
	case NewOffset(0, rank):
		p.castling &^= queenSideRight(color)
	case NewOffset(7, rank):
		p.castling &^= kingSideRight(color)
	}
}

// Make applies a move (trusted to be at least pseudo-legal, with Piece and
// Capture already populated by move generation) and returns the UnmoveInfo
// needed to restore the exact prior state. Make does not itself verify that
// the mover's king ends up safe -- that check belongs to the caller (Board),
// which can cheaply Unmake on failure.
func (p *Position) Make(m Move) UnmoveInfo {
	mover := m.Piece.Color()
	u := UnmoveInfo{
		PrevCastling:     p.castling,
		PrevWhiteInCheck: p.whiteInCheck,
		PrevBlackInCheck: p.blackInCheck,
		PrevMaterial:     p.material,
		PrevMove:         p.prevMove,
		PrevHasPrevMove:  p.hasPrevMove,
	}

	switch m.Type {
	case KingSideCastle, QueenSideCastle:
		p.applyCastle(mover, m.Type)

	case EnPassantEast, EnPassantWest:
		capSq := m.To - PawnDir(mover)
		u.Capture = p.removePiece(capSq)
		p.removePiece(m.From)
		p.placePiece(m.To, m.Piece)

	default:
		if cap := p.squares[m.To]; cap.IsValid() {
			u.Capture = cap
			p.removePiece(m.To)
			p.clearRookHomeRight(cap.Color(), m.To)
		}
		p.removePiece(m.From)
		if m.IsPromotion() {
			p.placePiece(m.To, NewPiece(mover, m.Promotion))
		} else {
			p.placePiece(m.To, m.Piece)
		}
	}

	p.updateCastlingRights(mover, m)

	p.prevMove = m
	p.hasPrevMove = true

	p.whiteInCheck = p.king[White] != NullOffset && p.IsAttacked(Black, p.king[White])
	p.blackInCheck = p.king[Black] != NullOffset && p.IsAttacked(White, p.king[Black])

	return u
}

// Unmake is the exact inverse of Make, given the UnmoveInfo Make returned.
func (p *Position) Unmake(m Move, u UnmoveInfo) {
	mover := m.Piece.Color()

	switch m.Type {
	case KingSideCastle, QueenSideCastle:
		p.undoCastle(mover, m.Type)

	case EnPassantEast, EnPassantWest:
		p.removePiece(m.To)
		p.placePiece(m.From, m.Piece)
		capSq := m.To - PawnDir(mover)
		p.placePiece(capSq, u.Capture)

	default:
		p.removePiece(m.To)
		p.placePiece(m.From, m.Piece)
		if u.Capture.IsValid() {
			p.placePiece(m.To, u.Capture)
		}
	}

	p.castling = u.PrevCastling
	p.whiteInCheck = u.PrevWhiteInCheck
	p.blackInCheck = u.PrevBlackInCheck
	p.material = u.PrevMaterial
	p.prevMove = u.PrevMove
	p.hasPrevMove = u.PrevHasPrevMove
}

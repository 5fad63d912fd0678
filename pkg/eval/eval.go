// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/corvidae/boxmate/pkg/board"
)

// Evaluator is a static position evaluator, scoring from White's
// perspective (positive favors White regardless of the side to move).
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) Score
}

// pieceKinds enumerates the five non-king kinds eval sums material/mobility
// over; the two kings always cancel in a material balance, so they are
// skipped.
var pieceKinds = [5]board.Kind{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen}

// Eval is the Gene-parameterised evaluator: material plus the positional
// terms named in the Gene vector. Score is a pure function of the position
// and the gene, so swapping genes changes playing style without a rebuild.
type Eval struct {
	Gene *Gene
}

func New(g *Gene) Eval {
	if g == nil {
		g = DefaultGene()
	}
	return Eval{Gene: g}
}

var colors = [2]board.Color{board.White, board.Black}

func (e Eval) pieceValue(k board.Kind) Score {
	switch k {
	case board.Pawn:
		return Score(e.Gene.Get(GPawnValue))
	case board.Knight:
		return Score(e.Gene.Get(GKnightValue))
	case board.Bishop:
		return Score(e.Gene.Get(GBishopValue))
	case board.Rook:
		return Score(e.Gene.Get(GRookValue))
	case board.Queen:
		return Score(e.Gene.Get(GQueenValue))
	default:
		return 0
	}
}

// Evaluate returns the position score from White's perspective: material
// (Gene-scaled), mobility, pawn structure, king safety, rook/queen file and
// rank terms, development and a tempo bonus for the side to move.
func (e Eval) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()
	var s Score

	s += e.material(pos)
	s += e.mobility(pos)
	s += e.pawnStructure(pos, b.Turn())
	s += e.kingSafety(pos, b)
	s += e.rookAndQueenPlacement(pos)
	s += e.development(pos)
	s += e.outposts(pos)
	s += e.trapped(pos)
	s += e.kingAttackDefence(pos)
	s += e.centerControl(pos)

	switch {
	case isLoneKing(pos, board.Black) && !isLoneKing(pos, board.White):
		s += e.EndgameEval(pos, board.White)
	case isLoneKing(pos, board.White) && !isLoneKing(pos, board.Black):
		s += e.EndgameEval(pos, board.Black)
	}

	s += Score(e.Gene.Get(GTempoBonus)) * Unit(b.Turn())

	return Crop(s)
}

// materialSlopeAtZero is the nonlinear material curve's slope at zero
// material; its slope is exactly 1 at the starting material total, matching
// the downward-parabola transform (chenard's MaterialEval): f rises less than
// one-for-one above
// the starting total, so cashing in a material lead for more material
// counts for less than its face value, and falls more than one-for-one
// below it, so giving up material while already behind costs more than
// its face value.
const materialSlopeAtZero = 1.4

// startingMaterial is one side's total non-king material at the game's
// start, under the Gene's current piece values -- the point the material
// curve is centered on.
func (e Eval) startingMaterial() Score {
	return 8*e.pieceValue(board.Pawn) +
		2*e.pieceValue(board.Knight) +
		2*e.pieceValue(board.Bishop) +
		2*e.pieceValue(board.Rook) +
		e.pieceValue(board.Queen)
}

// materialCurve applies the nonlinear transform f to one side's raw
// material total.
func (e Eval) materialCurve(m Score) Score {
	initial := float64(e.startingMaterial())
	a := (materialSlopeAtZero - 1.0) / (2.0 * initial)
	b := 0.5/a + initial
	c := 0.25/a + initial

	x := float64(m)
	return Score(-a*(x-b)*(x-b) + c)
}

func (e Eval) rawMaterial(pos *board.Position, c board.Color) Score {
	var total Score
	for _, k := range pieceKinds {
		total += Score(pos.Count(c, k)) * e.pieceValue(k)
	}
	return total
}

// material is the nonlinear material term f(white) - f(black), per spec's
// material term, plus linear pair bonuses/penalties that aren't part of
// the curve itself.
func (e Eval) material(pos *board.Position) Score {
	s := e.materialCurve(e.rawMaterial(pos, board.White)) - e.materialCurve(e.rawMaterial(pos, board.Black))

	noQueens := pos.Count(board.White, board.Queen) == 0 && pos.Count(board.Black, board.Queen) == 0

	if pos.Count(board.White, board.Bishop) >= 2 {
		s += Score(e.Gene.Get(GBishopPairBonus))
		if noQueens {
			s += Score(e.Gene.Get(GBishopPairEndgameBonus))
		}
	}
	if pos.Count(board.Black, board.Bishop) >= 2 {
		s -= Score(e.Gene.Get(GBishopPairBonus))
		if noQueens {
			s -= Score(e.Gene.Get(GBishopPairEndgameBonus))
		}
	}
	if pos.Count(board.White, board.Knight) >= 2 {
		s -= Score(e.Gene.Get(GKnightPairPenalty))
	}
	if pos.Count(board.Black, board.Knight) >= 2 {
		s += Score(e.Gene.Get(GKnightPairPenalty))
	}
	if pos.Count(board.White, board.Rook) >= 2 {
		s -= Score(e.Gene.Get(GRookPairPenalty))
	}
	if pos.Count(board.Black, board.Rook) >= 2 {
		s += Score(e.Gene.Get(GRookPairPenalty))
	}

	return s + e.drawishPenalty(pos, s)
}

// drawishPenalty shrinks raw toward zero when the position is an
// opposite-colored-bishop ending, per spec's drawish-material term: that
// material configuration is notoriously hard to convert even with an
// otherwise winning edge, so its score is capped well below face value.
func (e Eval) drawishPenalty(pos *board.Position, raw Score) Score {
	if !isOppositeColoredBishopEnding(pos) {
		return 0
	}
	penalty := Score(e.Gene.Get(GDrawishMaterialPenalty))
	switch {
	case raw > penalty:
		return -penalty
	case raw > 0:
		return -raw
	case raw < -penalty:
		return penalty
	case raw < 0:
		return -raw
	default:
		return 0
	}
}

func isOppositeColoredBishopEnding(pos *board.Position) bool {
	for _, c := range colors {
		if pos.Count(c, board.Bishop) != 1 || pos.Count(c, board.Knight) != 0 ||
			pos.Count(c, board.Rook) != 0 || pos.Count(c, board.Queen) != 0 {
			return false
		}
	}
	wb, ok := findPiece(pos, board.White, board.Bishop)
	if !ok {
		return false
	}
	bb, ok := findPiece(pos, board.Black, board.Bishop)
	if !ok {
		return false
	}
	return squareColor(wb) != squareColor(bb)
}

func squareColor(o board.Offset) int {
	return (int(o.File()) + int(o.Rank())) % 2
}

// findPiece returns the offset of the first piece of kind k and color c, for
// kinds known to appear at most once when this is called (a lone bishop in
// an opposite-bishop ending).
func findPiece(pos *board.Position, c board.Color, k board.Kind) (board.Offset, bool) {
	for f := board.File(0); f < board.NumFiles; f++ {
		for r := board.Rank(0); r < board.NumRanks; r++ {
			o := board.NewOffset(f, r)
			if pc, ok := pos.Square(o); ok && pc == board.NewPiece(c, k) {
				return o, true
			}
		}
	}
	return board.NullOffset, false
}

// mobility counts pseudo-legal moves per side, weighted per piece kind --
// cheap relative to a legality filter and standard practice for a static
// evaluator (illegal-looking mobility washes out across a game).
func (e Eval) mobility(pos *board.Position) Score {
	unit := func(k board.Kind) Score {
		switch k {
		case board.Knight:
			return Score(e.Gene.Get(GKnightMobilityUnit))
		case board.Bishop:
			return Score(e.Gene.Get(GBishopMobilityUnit))
		case board.Rook:
			return Score(e.Gene.Get(GRookMobilityUnit))
		case board.Queen:
			return Score(e.Gene.Get(GQueenMobilityUnit))
		default:
			return 0
		}
	}

	var s Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		moves := board.GenerateMoves(pos, c)
		var count [board.NumKinds + 1]int
		for i := 0; i < moves.Len(); i++ {
			count[moves.At(i).Piece.Kind()]++
		}
		side := Score(0)
		for _, k := range [4]board.Kind{board.Knight, board.Bishop, board.Rook, board.Queen} {
			side += Score(count[k]) * unit(k)
		}
		if c == board.White {
			s += side
		} else {
			s -= side
		}
	}
	return s
}

func (e Eval) pawnStructure(pos *board.Position, turn board.Color) Score {
	var s Score
	for _, c := range colors {
		sign := Unit(c)
		opp := c.Opponent()

		fileCount := [board.NumFiles]int{}
		for f := board.File(0); f < board.NumFiles; f++ {
			for r := board.Rank(0); r < board.NumRanks; r++ {
				if pc, ok := pos.Square(board.NewOffset(f, r)); ok && pc == board.NewPiece(c, board.Pawn) {
					fileCount[f]++
				}
			}
		}
		for f := board.File(0); f < board.NumFiles; f++ {
			if fileCount[f] > 1 {
				s -= sign * Score(fileCount[f]-1) * Score(e.Gene.Get(GDoubledPawnPenalty))
			}
			if fileCount[f] > 0 && !hasNeighborPawns(fileCount, f) {
				s -= sign * Score(e.Gene.Get(GIsolatedPawnPenalty))
			}
		}

		for f := board.File(0); f < board.NumFiles; f++ {
			for r := board.Rank(0); r < board.NumRanks; r++ {
				o := board.NewOffset(f, r)
				pc, ok := pos.Square(o)
				if !ok || pc != board.NewPiece(c, board.Pawn) {
					continue
				}

				if isBackwardPawn(pos, c, f, r) {
					s -= sign * Score(e.Gene.Get(GBackwardPawnPenalty))
				}

				if isPassedPawn(pos, c, f, r) {
					s += sign * passedPawnBonus(e.Gene, c, r)
					if hasConnectedPassedPawn(pos, c, f, r) {
						s += sign * Score(e.Gene.Get(GConnectedPassedPawnBonus))
					}
					if hasRookOrQueenBehind(pos, c, f, r) {
						s += sign * Score(e.Gene.Get(GRookBehindPassedPawnBonus))
					}
					if blocker, ok := blockerAt(pos, c, f, r); ok && blocker.Color() == opp {
						s -= sign * passedPawnBlockerPenalty(e.Gene, c, r)
					} else if isUnstoppablePasser(pos, c, f, r, turn) {
						s += sign * Score(e.Gene.Get(GUnstoppablePasserBonus))
					}
				}

				if isMinorBehindPawn(pos, c, f, r) {
					s += sign * Score(e.Gene.Get(GMinorBehindPawnBonus))
				}
			}
		}
	}
	return s
}

// isBackwardPawn reports whether the pawn at (f,r) has no own pawn on an
// adjacent file at or behind its rank to support its advance, and its stop
// square is controlled by an enemy pawn -- the classic two-part definition.
func isBackwardPawn(pos *board.Position, c board.Color, f board.File, r board.Rank) bool {
	for _, ff := range [2]board.File{f - 1, f + 1} {
		if ff < 0 || ff >= board.NumFiles {
			continue
		}
		for rr := board.Rank(0); rr < board.NumRanks; rr++ {
			pc, ok := pos.Square(board.NewOffset(ff, rr))
			if !ok || pc != board.NewPiece(c, board.Pawn) {
				continue
			}
			behindOrLevel := rr <= r
			if c == board.Black {
				behindOrLevel = rr >= r
			}
			if behindOrLevel {
				return false
			}
		}
	}
	stop := board.NewOffset(f, r) + board.PawnDir(c)
	if !stop.IsOnBoard() {
		return false
	}
	return pawnControls(pos, c.Opponent(), stop)
}

// pawnControls reports whether a pawn of color c attacks square o, the same
// test IsAttacked uses for a pawn attacker, exposed here for the pawn
// structure heuristics that need it for one color at a time.
func pawnControls(pos *board.Position, c board.Color, o board.Offset) bool {
	dir := board.PawnDir(c)
	for _, d := range [2]board.Offset{board.DirE, board.DirW} {
		s := o - (dir + d)
		if pc, ok := pos.Square(s); ok && pc == board.NewPiece(c, board.Pawn) {
			return true
		}
	}
	return false
}

// hasConnectedPassedPawn reports whether the passed pawn at (f,r) has a
// same-colored passed pawn on an adjacent file within one rank of it.
func hasConnectedPassedPawn(pos *board.Position, c board.Color, f board.File, r board.Rank) bool {
	for _, ff := range [2]board.File{f - 1, f + 1} {
		if ff < 0 || ff >= board.NumFiles {
			continue
		}
		for _, rr := range [3]board.Rank{r - 1, r, r + 1} {
			if rr < 0 || rr >= board.NumRanks {
				continue
			}
			pc, ok := pos.Square(board.NewOffset(ff, rr))
			if ok && pc == board.NewPiece(c, board.Pawn) && isPassedPawn(pos, c, ff, rr) {
				return true
			}
		}
	}
	return false
}

// hasRookOrQueenBehind reports whether a friendly rook or queen sits behind
// the pawn at (f,r) on its file with nothing in between, ready to support
// its advance.
func hasRookOrQueenBehind(pos *board.Position, c board.Color, f board.File, r board.Rank) bool {
	dir := -board.PawnDir(c)
	o := board.NewOffset(f, r) + dir
	for o.IsOnBoard() {
		pc, _ := pos.Square(o)
		if !pc.IsEmpty() {
			return pc == board.NewPiece(c, board.Rook) || pc == board.NewPiece(c, board.Queen)
		}
		o += dir
	}
	return false
}

// blockerAt returns the piece directly in front of the pawn at (f,r), if
// any, on its advancing file.
func blockerAt(pos *board.Position, c board.Color, f board.File, r board.Rank) (board.Piece, bool) {
	o := board.NewOffset(f, r) + board.PawnDir(c)
	if !o.IsOnBoard() {
		return board.NoPiece, false
	}
	pc, ok := pos.Square(o)
	if !ok {
		return board.NoPiece, false
	}
	return pc, true
}

func passedPawnBlockerPenalty(g *Gene, c board.Color, r board.Rank) Score {
	advance := r
	if c == board.Black {
		advance = board.NumRanks - 1 - r
	}
	switch advance {
	case 1:
		return Score(g.Get(GPassedPawnBlockerPenaltyRank2))
	case 2:
		return Score(g.Get(GPassedPawnBlockerPenaltyRank3))
	case 3:
		return Score(g.Get(GPassedPawnBlockerPenaltyRank4))
	case 4:
		return Score(g.Get(GPassedPawnBlockerPenaltyRank5))
	case 5:
		return Score(g.Get(GPassedPawnBlockerPenaltyRank6))
	case 6:
		return Score(g.Get(GPassedPawnBlockerPenaltyRank7))
	default:
		return 0
	}
}

// isUnstoppablePasser applies the rule of the square: the pawn promotes
// unstoppably if the enemy king cannot reach the promotion square first,
// giving the defender one extra tempo when it is their move.
func isUnstoppablePasser(pos *board.Position, c board.Color, f board.File, r board.Rank, turn board.Color) bool {
	opp := c.Opponent()
	king := pos.King(opp)
	if king == board.NullOffset {
		return false
	}
	promoRank := board.PromotionRank(c)
	toPromo := abs(int(promoRank) - int(r))

	kingDist := max(abs(int(king.File())-int(f)), abs(int(king.Rank())-int(promoRank)))
	if turn == opp {
		kingDist--
	}
	return kingDist > toPromo
}

// isMinorBehindPawn reports whether a knight or bishop sits directly behind
// a friendly pawn on the same file, the classic opening-phase shelter shape.
func isMinorBehindPawn(pos *board.Position, c board.Color, f board.File, r board.Rank) bool {
	behind := board.NewOffset(f, r) + (-board.PawnDir(c))
	if !behind.IsOnBoard() {
		return false
	}
	pc, ok := pos.Square(behind)
	if !ok || pc.Color() != c {
		return false
	}
	return pc.Kind() == board.Knight || pc.Kind() == board.Bishop
}

func hasNeighborPawns(fileCount [board.NumFiles]int, f board.File) bool {
	if f > 0 && fileCount[f-1] > 0 {
		return true
	}
	if f < board.NumFiles-1 && fileCount[f+1] > 0 {
		return true
	}
	return false
}

// isPassedPawn reports whether the pawn at (f,r) has no enemy pawn on its
// own file or an adjacent file, at or ahead of its rank (toward promotion).
func isPassedPawn(pos *board.Position, c board.Color, f board.File, r board.Rank) bool {
	opp := c.Opponent()
	lo, hi := f-1, f+1
	if lo < 0 {
		lo = 0
	}
	if hi >= board.NumFiles {
		hi = board.NumFiles - 1
	}

	forward := func(rank board.Rank) bool {
		if c == board.White {
			return rank > r
		}
		return rank < r
	}
	for ff := lo; ff <= hi; ff++ {
		for rr := board.Rank(0); rr < board.NumRanks; rr++ {
			if !forward(rr) {
				continue
			}
			if pc, ok := pos.Square(board.NewOffset(ff, rr)); ok && pc == board.NewPiece(opp, board.Pawn) {
				return false
			}
		}
	}
	return true
}

func passedPawnBonus(g *Gene, c board.Color, r board.Rank) Score {
	advance := r
	if c == board.Black {
		advance = board.NumRanks - 1 - r
	}
	switch advance {
	case 1:
		return Score(g.Get(GPassedPawnBonusRank2))
	case 2:
		return Score(g.Get(GPassedPawnBonusRank3))
	case 3:
		return Score(g.Get(GPassedPawnBonusRank4))
	case 4:
		return Score(g.Get(GPassedPawnBonusRank5))
	case 5:
		return Score(g.Get(GPassedPawnBonusRank6))
	case 6:
		return Score(g.Get(GPassedPawnBonusRank7))
	default:
		return 0
	}
}

func (e Eval) kingSafety(pos *board.Position, b *board.Board) Score {
	var s Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}

		king := pos.King(c)
		if king == board.NullOffset {
			continue
		}
		f, r := king.File(), king.Rank()

		shieldRank := r + 1
		if c == board.Black {
			shieldRank = r - 1
		}
		shield := 0
		if shieldRank >= 0 && shieldRank < board.NumRanks {
			for _, ff := range [3]board.File{f - 1, f, f + 1} {
				if ff < 0 || ff >= board.NumFiles {
					continue
				}
				if pc, ok := pos.Square(board.NewOffset(ff, shieldRank)); ok && pc == board.NewPiece(c, board.Pawn) {
					shield++
				}
			}
		}
		s += sign * Score(shield) * Score(e.Gene.Get(GKingShieldBonus))

		if !fileHasPawn(pos, f, board.White) && !fileHasPawn(pos, f, board.Black) {
			s -= sign * Score(e.Gene.Get(GKingOpenFilePenalty))
		}

		if b.HasCastled(c) {
			s += sign * Score(e.Gene.Get(GHasCastledBonus))
		} else if castlingStillAvailable(pos, c) {
			s += sign * Score(e.Gene.Get(GCastlingRightsBonus))
		}
	}
	s += e.kingOpposition(pos, b.Turn())
	return s
}

// kingOpposition credits direct opposition (kings two squares apart on the
// same file or rank) to whichever side does not have to move, since that
// side forces the other to give way -- standard king-and-pawn endgame
// technique.
func (e Eval) kingOpposition(pos *board.Position, turn board.Color) Score {
	wk, bk := pos.King(board.White), pos.King(board.Black)
	if wk == board.NullOffset || bk == board.NullOffset {
		return 0
	}
	df := abs(int(wk.File()) - int(bk.File()))
	dr := abs(int(wk.Rank()) - int(bk.Rank()))
	if df != 0 && dr != 0 {
		return 0
	}
	if df+dr != 2 {
		return 0
	}
	bonus := Score(e.Gene.Get(GKingOppositionBonus))
	if turn == board.White {
		return -bonus // Black holds the opposition
	}
	return bonus
}

func castlingStillAvailable(pos *board.Position, c board.Color) bool {
	if c == board.White {
		return pos.Castling().Allows(board.WhiteKingSide) || pos.Castling().Allows(board.WhiteQueenSide)
	}
	return pos.Castling().Allows(board.BlackKingSide) || pos.Castling().Allows(board.BlackQueenSide)
}

func fileHasPawn(pos *board.Position, f board.File, c board.Color) bool {
	for r := board.Rank(0); r < board.NumRanks; r++ {
		if pc, ok := pos.Square(board.NewOffset(f, r)); ok && pc == board.NewPiece(c, board.Pawn) {
			return true
		}
	}
	return false
}

func (e Eval) rookAndQueenPlacement(pos *board.Position) Score {
	var s Score
	for _, c := range colors {
		sign := Unit(c)
		seventh := board.Rank(6)
		if c == board.Black {
			seventh = board.Rank(1)
		}

		var rooks []board.Offset
		for f := board.File(0); f < board.NumFiles; f++ {
			for r := board.Rank(0); r < board.NumRanks; r++ {
				o := board.NewOffset(f, r)
				pc, ok := pos.Square(o)
				if !ok {
					continue
				}
				switch {
				case pc == board.NewPiece(c, board.Rook):
					rooks = append(rooks, o)
					own, enemy := fileHasPawn(pos, f, c), fileHasPawn(pos, f, c.Opponent())
					if !own && !enemy {
						s += sign * Score(e.Gene.Get(GRookOpenFileBonus))
						if king := pos.King(c.Opponent()); king != board.NullOffset && abs(int(king.File())-int(f)) <= 1 {
							s += sign * Score(e.Gene.Get(GRookOpenFileKingAttackBonus))
						}
					} else if !own {
						s += sign * Score(e.Gene.Get(GRookSemiOpenFileBonus))
					}
					if r == seventh {
						s += sign * Score(e.Gene.Get(GRookOnSeventhBonus))
					}
				case pc == board.NewPiece(c, board.Queen) && r == seventh:
					s += sign * Score(e.Gene.Get(GQueenOnSeventhBonus))
				}
			}
		}
		if len(rooks) == 2 && rooksConnected(pos, rooks[0], rooks[1]) {
			s += sign * Score(e.Gene.Get(GConnectedRooksBonus))
		}
	}
	return s
}

// rooksConnected reports whether two same-colored rooks stand on a shared
// rank or file with nothing between them.
func rooksConnected(pos *board.Position, a, b board.Offset) bool {
	switch {
	case a.File() == b.File():
		return fileClear(pos, a, b)
	case a.Rank() == b.Rank():
		return rankClear(pos, a, b)
	default:
		return false
	}
}

func fileClear(pos *board.Position, a, b board.Offset) bool {
	lo, hi := a.Rank(), b.Rank()
	if lo > hi {
		lo, hi = hi, lo
	}
	for r := lo + 1; r < hi; r++ {
		if pc, _ := pos.Square(board.NewOffset(a.File(), r)); !pc.IsEmpty() {
			return false
		}
	}
	return true
}

func rankClear(pos *board.Position, a, b board.Offset) bool {
	lo, hi := a.File(), b.File()
	if lo > hi {
		lo, hi = hi, lo
	}
	for f := lo + 1; f < hi; f++ {
		if pc, _ := pos.Square(board.NewOffset(f, a.Rank())); !pc.IsEmpty() {
			return false
		}
	}
	return true
}

// development penalizes an early queen sortie and minors still on their
// home squares, a cheap proxy for opening development.
func (e Eval) development(pos *board.Position) Score {
	var s Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := Score(1)
		home := board.Rank(0)
		if c == board.Black {
			sign = -1
			home = board.Rank(7)
		}

		undeveloped := 0
		for _, f := range [4]board.File{1, 2, 5, 6} {
			if pc, ok := pos.Square(board.NewOffset(f, home)); ok &&
				(pc.Kind() == board.Knight || pc.Kind() == board.Bishop) && pc.Color() == c {
				undeveloped++
			}
		}
		s -= sign * Score(undeveloped) * Score(e.Gene.Get(GUndevelopedMinorPenalty))

		queenHome := board.NewOffset(3, home)
		if pc, ok := pos.Square(queenHome); !ok || pc != board.NewPiece(c, board.Queen) {
			if undeveloped >= 2 {
				s -= sign * Score(e.Gene.Get(GEarlyQueenDevelopmentPenalty))
			}
		}
	}
	return s
}

// outposts rewards a knight or bishop planted on a square no enemy pawn can
// ever attack, with an extra bonus when a friendly pawn defends it, and
// penalizes a knight stuck on a rim file and a bishop clear of the board's
// two long diagonals.
func (e Eval) outposts(pos *board.Position) Score {
	var s Score
	for _, c := range colors {
		sign := Unit(c)
		opp := c.Opponent()

		for f := board.File(0); f < board.NumFiles; f++ {
			for r := board.Rank(0); r < board.NumRanks; r++ {
				o := board.NewOffset(f, r)
				pc, ok := pos.Square(o)
				if !ok || pc.Color() != c {
					continue
				}

				switch pc.Kind() {
				case board.Knight:
					if f == 0 || f == board.NumFiles-1 {
						s -= sign * Score(e.Gene.Get(GKnightRimPenalty))
					}
					if isOutpost(pos, c, opp, f, r) {
						s += sign * Score(e.Gene.Get(GKnightOutpostBonus))
						if pawnControls(pos, c, o) {
							s += sign * Score(e.Gene.Get(GOutpostDefendedByPawnBonus))
						}
					}
				case board.Bishop:
					if onLongDiagonal(f, r) {
						s += sign * Score(e.Gene.Get(GBishopLongDiagonalBonus))
					}
					if isOutpost(pos, c, opp, f, r) {
						s += sign * Score(e.Gene.Get(GBishopOutpostBonus))
						if pawnControls(pos, c, o) {
							s += sign * Score(e.Gene.Get(GOutpostDefendedByPawnBonus))
						}
					}
				}
			}
		}
	}
	return s
}

// isOutpost reports whether (f,r) is advanced past the middle of the board
// from c's perspective and can never be challenged by an opp pawn: no opp
// pawn remains on an adjacent file behind (from opp's perspective) that
// square.
func isOutpost(pos *board.Position, c, opp board.Color, f board.File, r board.Rank) bool {
	advance := int(r)
	if c == board.Black {
		advance = board.NumRanks - 1 - int(r)
	}
	if advance < 3 {
		return false
	}
	for _, ff := range [2]board.File{f - 1, f + 1} {
		if ff < 0 || ff >= board.NumFiles {
			continue
		}
		for rr := board.Rank(0); rr < board.NumRanks; rr++ {
			pc, ok := pos.Square(board.NewOffset(ff, rr))
			if !ok || pc != board.NewPiece(opp, board.Pawn) {
				continue
			}
			stillAhead := int(rr) < int(r)
			if opp == board.Black {
				stillAhead = int(rr) > int(r)
			}
			if stillAhead {
				return false
			}
		}
	}
	return true
}

func onLongDiagonal(f board.File, r board.Rank) bool {
	return int(f) == int(r) || int(f)+int(r) == board.NumFiles-1
}

// trapped penalizes a bishop or rook with no or almost no squares to move
// to -- a cheap proxy for the classic "trapped bishop on a7/h2" and
// "trapped rook in the corner" patterns, without enumerating them by name.
func (e Eval) trapped(pos *board.Position) Score {
	var s Score
	for _, c := range colors {
		sign := Unit(c)
		counts := pieceMoveCounts(pos, c)

		for f := board.File(0); f < board.NumFiles; f++ {
			for r := board.Rank(0); r < board.NumRanks; r++ {
				o := board.NewOffset(f, r)
				pc, ok := pos.Square(o)
				if !ok || pc.Color() != c {
					continue
				}
				switch pc.Kind() {
				case board.Bishop:
					if counts[o] <= 1 {
						s -= sign * Score(e.Gene.Get(GTrappedBishopPenalty))
					}
				case board.Rook:
					if counts[o] == 0 {
						s -= sign * Score(e.Gene.Get(GTrappedRookPenalty))
					}
				}
			}
		}
	}
	return s
}

// pieceMoveCounts tallies pseudo-legal moves per origin square for color c.
func pieceMoveCounts(pos *board.Position, c board.Color) [board.NumCells]int {
	var counts [board.NumCells]int
	moves := board.GenerateMoves(pos, c)
	for i := 0; i < moves.Len(); i++ {
		counts[moves.At(i).From]++
	}
	return counts
}

// kingZone is a king's own square plus its eight neighbors, clipped to the
// board.
func kingZone(king board.Offset) []board.Offset {
	zone := make([]board.Offset, 0, 9)
	zone = append(zone, king)
	for _, d := range board.KingDirs {
		if s := king + d; s.IsOnBoard() {
			zone = append(zone, s)
		}
	}
	return zone
}

func inZone(zone []board.Offset, o board.Offset) bool {
	for _, z := range zone {
		if z == o {
			return true
		}
	}
	return false
}

func (e Eval) attackUnit(k board.Kind) Score {
	switch k {
	case board.Pawn:
		return Score(e.Gene.Get(GKingAttackUnitPawn))
	case board.Knight:
		return Score(e.Gene.Get(GKingAttackUnitKnight))
	case board.Bishop:
		return Score(e.Gene.Get(GKingAttackUnitBishop))
	case board.Rook:
		return Score(e.Gene.Get(GKingAttackUnitRook))
	case board.Queen:
		return Score(e.Gene.Get(GKingAttackUnitQueen))
	default:
		return 0
	}
}

func (e Eval) defenderUnit(k board.Kind) Score {
	switch k {
	case board.Knight:
		return Score(e.Gene.Get(GKingDefenderUnitKnight))
	case board.Bishop:
		return Score(e.Gene.Get(GKingDefenderUnitBishop))
	case board.Rook:
		return Score(e.Gene.Get(GKingDefenderUnitRook))
	case board.Queen:
		return Score(e.Gene.Get(GKingDefenderUnitQueen))
	default:
		return 0
	}
}

func (e Eval) attackTierBonus(attackers int) Score {
	switch {
	case attackers <= 1:
		return Score(e.Gene.Get(GKingAttackTier0Bonus))
	case attackers == 2:
		return Score(e.Gene.Get(GKingAttackTier1Bonus))
	case attackers == 3:
		return Score(e.Gene.Get(GKingAttackTier2Bonus))
	default:
		return Score(e.Gene.Get(GKingAttackTier3Bonus))
	}
}

// kingAttackDefence scores the danger around each king: every enemy piece
// that can reach the king's own square or one of its eight neighbors adds
// its kind's attack unit, scaled up further the more attackers pile on, and
// every friendly non-pawn piece adjacent to its own king subtracts a
// defender credit -- the attack-and-defence term spec.md's eval section
// names.
func (e Eval) kingAttackDefence(pos *board.Position) Score {
	var s Score
	for _, defender := range colors {
		sign := Unit(defender)
		attacker := defender.Opponent()

		king := pos.King(defender)
		if king == board.NullOffset {
			continue
		}
		zone := kingZone(king)

		moves := board.GenerateMoves(pos, attacker)
		seen := map[board.Offset]bool{}
		var units Score
		attackers := 0
		for i := 0; i < moves.Len(); i++ {
			m := moves.At(i)
			if m.Piece.Kind() == board.King || seen[m.From] || !inZone(zone, m.To) {
				continue
			}
			seen[m.From] = true
			units += e.attackUnit(m.Piece.Kind())
			attackers++
		}
		if attackers == 0 {
			continue
		}
		danger := units + e.attackTierBonus(attackers)

		var defense Score
		for _, d := range board.KingDirs {
			o := king + d
			if !o.IsOnBoard() {
				continue
			}
			if pc, ok := pos.Square(o); ok && pc.Color() == defender {
				defense += e.defenderUnit(pc.Kind())
			}
		}

		s -= sign * (danger - defense) * Score(e.Gene.Get(GKingSafetyScale)) / 100
	}
	return s
}

// centerControl rewards occupying or attacking the four central squares and
// a side-by-side pawn duo across the center files, a cheap proxy for space.
func (e Eval) centerControl(pos *board.Position) Score {
	var s Score
	centers := [4]board.Offset{
		board.NewOffset(3, 3), board.NewOffset(4, 3),
		board.NewOffset(3, 4), board.NewOffset(4, 4),
	}
	unit := Score(e.Gene.Get(GCenterControlBonus))
	for _, sq := range centers {
		if pc, ok := pos.Square(sq); ok {
			s += Unit(pc.Color()) * unit
		}
		if pos.IsAttacked(board.White, sq) {
			s += unit / 2
		}
		if pos.IsAttacked(board.Black, sq) {
			s -= unit / 2
		}
	}

	duo := Score(e.Gene.Get(GCenterPawnDuoBonus))
	for _, c := range colors {
		sign := Unit(c)
		for f := board.File(2); f < 5; f++ {
			for r := board.Rank(0); r < board.NumRanks; r++ {
				a, ok1 := pos.Square(board.NewOffset(f, r))
				b, ok2 := pos.Square(board.NewOffset(f+1, r))
				if ok1 && ok2 && a == board.NewPiece(c, board.Pawn) && b == board.NewPiece(c, board.Pawn) {
					s += sign * duo
				}
			}
		}
	}
	return s
}

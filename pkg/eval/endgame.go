package eval

import "github.com/corvidae/boxmate/pkg/board"

// cornerTable scores every mailbox offset by how good a square it is for
// the losing king to be driven to, in a lone-king ending: high near a
// corner and low in the center. Indexed directly by board.Offset (144
// entries, the two-wide off-board border left at zero since it is never
// queried), the same direct-lookup idiom the rest of the board package uses
// for mailbox data.
var cornerTable [board.NumCells]int16

func init() {
	for f := board.File(0); f < board.NumFiles; f++ {
		for r := board.Rank(0); r < board.NumRanks; r++ {
			cornerTable[board.NewOffset(f, r)] = int16(cornerScore(f, r))
		}
	}
}

func cornerScore(f board.File, r board.Rank) int {
	fileEdge := min(int(f), board.NumFiles-1-int(f))
	rankEdge := min(int(r), board.NumRanks-1-int(r))
	edgeDist := min(fileEdge, rankEdge) // 0 (on edge) .. 3 (center)

	corners := [4][2]int{{0, 0}, {0, board.NumRanks - 1}, {board.NumFiles - 1, 0}, {board.NumFiles - 1, board.NumRanks - 1}}
	cornerDist := board.NumFiles
	for _, c := range corners {
		d := max(abs(int(f)-c[0]), abs(int(r)-c[1]))
		cornerDist = min(cornerDist, d)
	}

	return (3-edgeDist)*10 + (7-cornerDist)*5
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// isLoneKing reports whether color has no piece left but the king.
func isLoneKing(pos *board.Position, c board.Color) bool {
	for _, k := range pieceKinds {
		if pos.Count(c, k) > 0 {
			return false
		}
	}
	return true
}

// EndgameEval specializes the evaluation for a lone king against a king
// with mating material: it rewards driving the losing king toward a corner
// and edge, keeping the winning king close enough and centralized enough to
// help deliver mate, and accounts for the slower "wrong-footed" technique a
// bishop-and-knight mate needs, the ingredients of the standard
// king-and-major-piece (or king-and-minors) mating technique.
func (e Eval) EndgameEval(pos *board.Position, strongSide board.Color) Score {
	weakKing := pos.King(strongSide.Opponent())
	strongKing := pos.King(strongSide)
	if weakKing == board.NullOffset || strongKing == board.NullOffset {
		return 0
	}

	corner := Score(cornerTable[weakKing]) * Score(e.Gene.Get(GKingCornerDistanceWeight)) / 10
	corner += e.matingNetBonus(weakKing)

	dist := max(abs(int(strongKing.File())-int(weakKing.File())), abs(int(strongKing.Rank())-int(weakKing.Rank())))
	proximity := Score(7-dist) * Score(e.Gene.Get(GKingProximityWeight))
	proximity += e.strongKingCentralization(strongKing)

	penalty := e.bishopKnightTempoPenalty(pos, strongSide)

	return Unit(strongSide)*(corner+proximity) - penalty
}

// matingNetBonus rewards driving the weak king toward the rim and, further,
// into a literal corner -- the two checkpoints of every basic mating net,
// scored separately so a gene tuner can weight them independently of the
// combined cornerTable gradient.
func (e Eval) matingNetBonus(weakKing board.Offset) Score {
	f, r := weakKing.File(), weakKing.Rank()
	fileEdge := min(int(f), board.NumFiles-1-int(f))
	rankEdge := min(int(r), board.NumRanks-1-int(r))

	var s Score
	if fileEdge == 0 || rankEdge == 0 {
		s += Score(e.Gene.Get(GMatingNetEdgeBonus))
	}
	if fileEdge == 0 && rankEdge == 0 {
		s += Score(e.Gene.Get(GMatingNetCornerBonus))
	}
	return s
}

// strongKingCentralization rewards the mating king for standing near the
// board's center, independent of its distance to the weak king: a mating
// king stuck on its own back rank is a slower mating king even when the two
// kings are already close together.
func (e Eval) strongKingCentralization(strongKing board.Offset) Score {
	f, r := strongKing.File(), strongKing.Rank()
	fileDist := min(int(f), board.NumFiles-1-int(f))
	rankDist := min(int(r), board.NumRanks-1-int(r))
	return Score(min(fileDist, rankDist)) * Score(e.Gene.Get(GEndgameKingCentralizationBonus)) / 3
}

// bishopKnightTempoPenalty docks the mating side's score when its mating
// material is exactly one bishop and one knight -- the one elementary mate
// that forces the defending king into a corner of a specific color, costing
// real tempo compared to a simple two-bishop or rook mate.
func (e Eval) bishopKnightTempoPenalty(pos *board.Position, strongSide board.Color) Score {
	if pos.Count(strongSide, board.Bishop) == 1 && pos.Count(strongSide, board.Knight) == 1 &&
		pos.Count(strongSide, board.Rook) == 0 && pos.Count(strongSide, board.Queen) == 0 {
		return Score(e.Gene.Get(GMatingNetKnightTempoPenalty))
	}
	return 0
}

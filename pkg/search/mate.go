package search

import "github.com/corvidae/boxmate/pkg/eval"

// mateMargin bounds how far a mate score can be nudged by WinDelayPenalty
// before it would be mistaken for a normal heuristic evaluation. With
// WinDelayPenalty's gene maximum of 100 and MaxPly plies, the total spread
// a mate score crosses on its way back to the root is well under this.
const mateMargin = eval.Score(MaxPly) * 200

// isMateScore reports whether score represents a forced mate (for or
// against) rather than a heuristic material/positional evaluation.
func isMateScore(score eval.Score) bool {
	return score > eval.Win-mateMargin || score < -eval.Win+mateMargin
}

// incrementMateDistance nudges a mate score one ply closer to zero, so that
// a mate found d plies away scores Win-WinDelayPenalty*d: shorter forced
// mates always outscore longer ones, and a mate found in an earlier
// iteration keeps the same score when re-found in a later one. Call once
// per ply while a search result unwinds back toward the root, mirroring how
// eval.Crop never touches scores outside its own [Min,Max] domain.
func incrementMateDistance(score eval.Score, g *eval.Gene) eval.Score {
	if !isMateScore(score) {
		return score
	}
	penalty := eval.Score(g.Get(eval.GWinDelayPenalty))
	if score > 0 {
		return score - penalty
	}
	return score + penalty
}

// mateDistance returns the number of plies to mate that score represents,
// if it is a mate score.
func mateDistance(score eval.Score, g *eval.Gene) (int, bool) {
	if !isMateScore(score) {
		return 0, false
	}
	penalty := eval.Score(g.Get(eval.GWinDelayPenalty))
	if penalty <= 0 {
		return 0, true
	}
	if score > 0 {
		return int((eval.Win - score) / penalty), true
	}
	return int((eval.Win + score) / penalty), true
}

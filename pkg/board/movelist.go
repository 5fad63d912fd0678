package board

import "math/rand"

// MaxMoves is the capacity of a MoveList. Chess's proven upper bound on the
// number of legal moves in any reachable position is 218; spec.md asks for at
// least 220, we keep headroom for generation during pseudo-legal scans.
const MaxMoves = 240

// MoveList is a fixed-capacity ordered list of moves, as produced by move
// generation and consumed by search move ordering.
type MoveList struct {
	moves [MaxMoves]Move
	n     int
}

// Add appends a move. Panics if the list is full, which would indicate a
// move generation bug (more moves than the proven upper bound).
func (l *MoveList) Add(m Move) {
	l.moves[l.n] = m
	l.n++
}

func (l *MoveList) Len() int {
	return l.n
}

func (l *MoveList) At(i int) Move {
	return l.moves[i]
}

func (l *MoveList) Set(i int, m Move) {
	l.moves[i] = m
}

// Slice returns the moves as a plain slice, sharing no backing array with
// the list (safe to keep past further mutation of the list).
func (l *MoveList) Slice() []Move {
	out := make([]Move, l.n)
	copy(out, l.moves[:l.n])
	return out
}

// PushFront moves the first move equal to m to the front of the list, if
// present. Used to seed move ordering with the transposition/PV move.
func (l *MoveList) PushFront(m Move) {
	for i := 0; i < l.n; i++ {
		if l.moves[i].Equals(m) {
			found := l.moves[i]
			for j := i; j > 0; j-- {
				l.moves[j] = l.moves[j-1]
			}
			l.moves[0] = found
			return
		}
	}
}

// Shuffle randomizes move order using the given RNG, so the search explores
// a different move order across runs when randomization is requested.
func (l *MoveList) Shuffle(r *rand.Rand) {
	for i := l.n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		l.moves[i], l.moves[j] = l.moves[j], l.moves[i]
	}
}

// IsLegal reports whether the given move is present in the list, matching
// by From/To/Type/Promotion only.
func (l *MoveList) IsLegal(m Move) bool {
	for i := 0; i < l.n; i++ {
		if l.moves[i].Equals(m) {
			return true
		}
	}
	return false
}

// SortByScore orders moves by descending Score, used once per iteration in
// the root search to put the best-scoring move first next time.
func (l *MoveList) SortByScore() {
	for i := 1; i < l.n; i++ {
		v := l.moves[i]
		j := i - 1
		for j >= 0 && l.moves[j].Score < v.Score {
			l.moves[j+1] = l.moves[j]
			j--
		}
		l.moves[j+1] = v
	}
}

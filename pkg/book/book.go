// Package book implements a read-only opening book: a tree of reply moves
// compiled once from a text source of long-algebraic lines, consulted at
// move time by replaying the game's history down from the root.
package book

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/corvidae/boxmate/pkg/board"
)

// Branch is one reply in a Node: a move plus whether it is avoidable
// ("book-avoidable", marked with a trailing '?' in the text source) and the
// subtree of replies to it.
type Branch struct {
	From, To board.Offset
	Bad      bool
	Reply    *Node
}

func (br Branch) matches(m board.Move) bool {
	return br.From == m.From && br.To == m.To
}

// Node is an ordered list of reply branches.
type Node struct {
	Branches []Branch
}

func (n *Node) find(from, to board.Offset) (*Branch, bool) {
	for i := range n.Branches {
		if n.Branches[i].From == from && n.Branches[i].To == to {
			return &n.Branches[i], true
		}
	}
	return nil, false
}

func (n *Node) findOrAdd(from, to board.Offset, bad bool) *Branch {
	if b, ok := n.find(from, to); ok {
		if bad {
			b.Bad = true
		}
		return b
	}
	n.Branches = append(n.Branches, Branch{From: from, To: to, Bad: bad, Reply: &Node{}})
	return &n.Branches[len(n.Branches)-1]
}

// Book is a read-only opening tree. The zero value is an empty book (never
// consulted), equivalent to NoBook.
type Book struct {
	root *Node
}

// NoBook is an opening book with no lines; Find always returns an empty
// list for it.
var NoBook = &Book{root: &Node{}}

// Find replays b's move history from the book's root and, if the resulting
// position is still in the tree, returns the non-avoidable reply moves at
// that node (legality-resolved against b's current legal moves). It
// returns an empty list -- not an error -- once the line has left the book,
// and is disabled entirely for a board edited from a FEN, since the book
// is keyed on the standard starting position.
func (bk *Book) Find(b *board.Board) ([]board.Move, error) {
	if bk == nil || bk.root == nil {
		return nil, nil
	}
	if b.IsEdited() {
		return nil, nil
	}

	node := bk.root
	for _, played := range b.MoveHistory() {
		branch, ok := node.find(played.From, played.To)
		if !ok || branch.Reply == nil {
			return nil, nil
		}
		node = branch.Reply
	}

	legal := b.LegalMoves().Slice()
	var out []board.Move
	for _, branch := range node.Branches {
		if branch.Bad {
			continue
		}
		for _, m := range legal {
			if branch.matches(m) {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

// Compile reads a text opening-book source: one long-algebraic move per
// line (e.g. "e2e4"), optionally suffixed with '?' to mark a move the book
// should avoid replying with; a line holding more than one move is
// rejected as invalid syntax. A line consisting of just
// "[" starts a new continuation from the root, so the source can list many
// independent lines that share a tree of transpositions; ';' starts a
// comment running to end of line. Every move is replayed against an actual
// position, so an illegal line fails to compile rather than silently
// producing a bad book.
func Compile(r io.Reader) (*Book, error) {
	bk := &Book{root: &Node{}}

	b := board.NewBoard(board.NewZobristTable(1))
	node := bk.root
	lineno := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		if line == "[" {
			for b.Ply() > 0 {
				b.PopMove()
			}
			node = bk.root
			continue
		}

		from, to, bad, err := parseToken(line)
		if err != nil {
			return nil, fmt.Errorf("book: line %d: %w", lineno, err)
		}

		m, ok := findLegal(b, from, to)
		if !ok {
			return nil, fmt.Errorf("book: line %d: move %v not legal in %v", lineno, line, b.Position())
		}

		branch := node.findOrAdd(from, to, bad)
		b.PushMove(m)
		node = branch.Reply
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	return bk, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

func parseToken(tok string) (from, to board.Offset, bad bool, err error) {
	if len(tok) == 5 && tok[4] == '?' {
		bad = true
		tok = tok[:4]
	}
	if len(tok) != 4 {
		return 0, 0, false, fmt.Errorf("invalid move syntax %q", tok)
	}
	from, err = board.ParseOffsetStr(tok[0:2])
	if err != nil {
		return 0, 0, false, err
	}
	to, err = board.ParseOffsetStr(tok[2:4])
	if err != nil {
		return 0, 0, false, err
	}
	return from, to, bad, nil
}

func findLegal(b *board.Board, from, to board.Offset) (board.Move, bool) {
	for _, m := range b.LegalMoves().Slice() {
		if m.From == from && m.To == to && m.Promotion == board.NoKind {
			return m, true
		}
	}
	return board.Move{}, false
}

package book

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/corvidae/boxmate/pkg/board"
)

// badMoveBit marks a branch's move word as book-avoidable, per spec's
// packed format: source/destination offsets in the lower 16 bits, the bad
// flag at 0x10000.
const badMoveBit = 0x10000

// LoadFile reads a compiled opening book from path.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load reads a compiled opening book: a node is a branch count followed by
// that many {size, moveWord, reply-subtree} branches, every field a
// little-endian uint32. size is the word count of the branch's own
// encoding (including its nested reply subtree) and is not needed to
// decode -- it exists so a C reader could skip a branch without recursing
// into it -- but is still validated here to catch a truncated or corrupt
// file early.
func Load(r io.Reader) (*Book, error) {
	br := bufio.NewReader(r)
	root, err := readNode(br)
	if err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	return &Book{root: root}, nil
}

func readNode(r *bufio.Reader) (*Node, error) {
	n, err := readWord(r)
	if err != nil {
		return nil, err
	}

	node := &Node{Branches: make([]Branch, 0, n)}
	for i := uint32(0); i < n; i++ {
		size, err := readWord(r)
		if err != nil {
			return nil, err
		}
		moveWord, err := readWord(r)
		if err != nil {
			return nil, err
		}

		from := board.Offset((moveWord >> 8) & 0xff)
		to := board.Offset(moveWord & 0xff)
		bad := moveWord&badMoveBit != 0

		reply, err := readNode(r)
		if err != nil {
			return nil, err
		}

		if got := branchSize(reply); got != size-2 {
			return nil, fmt.Errorf("corrupt book: branch declared size %d, computed %d", size, got+2)
		}

		node.Branches = append(node.Branches, Branch{From: from, To: to, Bad: bad, Reply: reply})
	}
	return node, nil
}

func readWord(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// SaveFile writes bk to path, replacing it atomically on success and
// removing any partially written file on error.
func SaveFile(bk *Book, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err != nil {
			os.Remove(path)
			return
		}
		err = cerr
	}()

	w := bufio.NewWriter(f)
	if err := writeNode(w, bk.root); err != nil {
		return err
	}
	return w.Flush()
}

func writeNode(w *bufio.Writer, n *Node) error {
	if err := writeWord(w, uint32(len(n.Branches))); err != nil {
		return err
	}
	for _, branch := range n.Branches {
		size := branchSize(branch.Reply) + 2

		moveWord := uint32(byte(branch.From))<<8 | uint32(byte(branch.To))
		if branch.Bad {
			moveWord |= badMoveBit
		}

		if err := writeWord(w, size); err != nil {
			return err
		}
		if err := writeWord(w, moveWord); err != nil {
			return err
		}
		if err := writeNode(w, branch.Reply); err != nil {
			return err
		}
	}
	return nil
}

func writeWord(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// branchSize returns the word count of node's own encoding: its branch
// count word plus, per branch, {size, moveWord} plus the nested subtree.
func branchSize(n *Node) uint32 {
	size := uint32(1)
	for _, b := range n.Branches {
		size += 2 + branchSize(b.Reply)
	}
	return size
}

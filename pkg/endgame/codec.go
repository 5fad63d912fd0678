package endgame

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/corvidae/boxmate/pkg/board"
)

// prefix is the on-disk header spec.md describes: a 4-byte signature, the
// header's own size, the entry size, the entry count, and reserved
// padding so a hex dump lines up on word boundaries.
type prefix struct {
	Signature [4]byte
	PrefixSize uint16
	EntrySize  uint16
	Count      uint32
	Reserved   [5]uint32
}

const entrySize = 2 // packed (plies-to-mate, piece+dest) record

// LoadDir reads "<dir>/<table.FileName()>" for the given extra piece kind.
func LoadDir(dir string, extra board.Kind) (*Table, error) {
	return LoadFile(filepath.Join(dir, (&Table{Extra: extra}).FileName()))
}

// LoadFile reads the table at path, taking its extra piece kind from the
// file name (see FileName).
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, err
	}
	for _, k := range []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight, board.Pawn} {
		if filepath.Base(path) == (&Table{Extra: k}).FileName() {
			t.Extra = k
		}
	}
	return t, nil
}

func Load(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	var p prefix
	if err := binary.Read(br, binary.LittleEndian, &p); err != nil {
		return nil, fmt.Errorf("endgame: reading prefix: %w", err)
	}
	if string(p.Signature[:]) != "egdb" {
		return nil, fmt.Errorf("endgame: bad signature %q", p.Signature)
	}
	if p.EntrySize != entrySize {
		return nil, fmt.Errorf("endgame: unsupported entry size %d", p.EntrySize)
	}

	t := &Table{entries: make(map[int]Entry, p.Count)}
	for i := uint32(0); i < p.Count; i++ {
		var idx uint32
		if err := binary.Read(br, binary.LittleEndian, &idx); err != nil {
			return nil, fmt.Errorf("endgame: reading index %d: %w", i, err)
		}
		var packed uint16
		if err := binary.Read(br, binary.LittleEndian, &packed); err != nil {
			return nil, fmt.Errorf("endgame: reading entry %d: %w", i, err)
		}
		t.entries[int(idx)] = unpackEntry(packed)
	}
	return t, nil
}

// SaveDir writes t to "<dir>/<t.FileName()>", per spec's file-name-from-
// piece-set convention.
func SaveDir(t *Table, dir string) error {
	return SaveFile(t, filepath.Join(dir, t.FileName()))
}

func SaveFile(t *Table, path string) (err error) {
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
	p := prefix{Signature: [4]byte{'e', 'g', 'd', 'b'}, PrefixSize: uint16(binary.Size(prefix{})), EntrySize: entrySize, Count: uint32(len(t.entries))}
	if err := binary.Write(w, binary.LittleEndian, p); err != nil {
		return err
	}

	indices := make([]int, 0, len(t.entries))
	for idx := range t.entries {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		if err := binary.Write(w, binary.LittleEndian, uint32(idx)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, packEntry(t.entries[idx])); err != nil {
			return err
		}
	}
	return w.Flush()
}

// packEntry/unpackEntry pack an Entry into the 16-bit word spec.md
// describes: bit 15 selects which piece moves, bits 14..8 hold the
// destination square (0..63 fits in 6 bits, one spare), bits 7..0 hold the
// plies-to-mate count.
const movesKingBit = 1 << 15

func packEntry(e Entry) uint16 {
	w := uint16(e.PliesToMate)
	w |= uint16(e.Dest) << 8
	if e.MovesKing {
		w |= movesKingBit
	}
	return w
}

func unpackEntry(w uint16) Entry {
	return Entry{
		PliesToMate: uint8(w & 0xff),
		Dest:        int((w >> 8) & 0x3f),
		MovesKing:   w&movesKingBit != 0,
	}
}

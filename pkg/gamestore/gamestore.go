// Package gamestore persists named games across process restarts in an
// embedded badger key-value store, keyed by session id. It supplements the
// flat "binary sequence of Move structures" save format spec.md describes
// for a single game (this repository has no encoder for that format;
// pkg/engine's History returns move text) with the ability to keep several concurrent sessions alive the
// way chenserver's in-memory ChessGameState/moveStack did per connection --
// except durable, since a host process restart shouldn't lose a game in
// progress.
package gamestore

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/corvidae/boxmate/pkg/board"
)

// SavedGame is one session's persisted state: the starting position (empty
// string means the standard initial position) and the moves played from it,
// in play order -- enough to replay the game with pkg/board alone.
type SavedGame struct {
	StartFEN string
	Moves    []board.Move
}

// Store wraps a badger database for SavedGame records.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("gamestore: open %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes g under sessionID, overwriting any prior state for that
// session.
func (s *Store) Save(sessionID string, g SavedGame) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return fmt.Errorf("gamestore: encode %q: %w", sessionID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(sessionID), buf.Bytes())
	})
}

// Load reads the game saved under sessionID. It reports false if no game is
// stored for that session.
func (s *Store) Load(sessionID string) (SavedGame, bool, error) {
	var g SavedGame
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(sessionID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&g)
		})
	})
	if err != nil {
		return SavedGame{}, false, fmt.Errorf("gamestore: load %q: %w", sessionID, err)
	}
	return g, found, nil
}

// Delete removes a session's saved game, if any.
func (s *Store) Delete(sessionID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(sessionID))
	})
}

// List returns every session id currently stored.
func (s *Store) List() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gamestore: list: %w", err)
	}
	return ids, nil
}

var prefix = []byte("game:")

func key(sessionID string) []byte {
	return append(append([]byte{}, prefix...), sessionID...)
}

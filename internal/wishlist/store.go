// Package wishlist owns the two wishlist collections and their durable
// JSON files. It is the only mutation surface for board state; handlers
// never touch the backing files directly.
package wishlist

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Collection identifies one of the two wishlist partitions.
type Collection string

const (
	// CollectionSingle holds single-player entries.
	CollectionSingle Collection = "single"
	// CollectionMulti holds multiplayer entries.
	CollectionMulti Collection = "multi"
)

// Entry is one wishlist item. Identity within a collection is AppID.
type Entry struct {
	Name      string `json:"name"`
	AppID     int    `json:"appId"`
	Suggester string `json:"suggester"`
}

const (
	singleFile = "single.json"
	multiFile  = "multi.json"
)

// Store holds both collections in memory and rewrites both files on every
// mutation. Mutations are serialized by a mutex; the process is the only
// writer, so last-writer-wins on the files is acceptable.
type Store struct {
	mu     sync.Mutex
	dir    string
	single []Entry
	multi  []Entry
	logger *slog.Logger
}

// Open loads the collections from dir, creating it when absent.
// Missing files mean an empty board, not an error.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{dir: dir, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload replaces the in-memory collections with the file contents.
// Also called by the file watcher when the board is edited externally.
func (s *Store) Reload() error {
	single, err := loadCollection(filepath.Join(s.dir, singleFile))
	if err != nil {
		return fmt.Errorf("load single collection: %w", err)
	}
	multi, err := loadCollection(filepath.Join(s.dir, multiFile))
	if err != nil {
		return fmt.Errorf("load multi collection: %w", err)
	}

	s.mu.Lock()
	s.single = single
	s.multi = multi
	s.mu.Unlock()

	return nil
}

// Contains reports whether an app id is present in the given collection.
func (s *Store) Contains(col Collection, appID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.collectionLocked(col) {
		if e.AppID == appID {
			return true
		}
	}
	return false
}

// IsMulti reports whether an app id lives in the multiplayer collection.
// The completion monitor consults this before the dual-collection removal.
func (s *Store) IsMulti(appID int) bool {
	return s.Contains(CollectionMulti, appID)
}

// Insert appends an entry to a collection and persists both files.
func (s *Store) Insert(col Collection, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch col {
	case CollectionSingle:
		s.single = append(s.single, entry)
	case CollectionMulti:
		s.multi = append(s.multi, entry)
	default:
		return fmt.Errorf("unknown collection %q", col)
	}

	return s.persistLocked()
}

// RemoveByAppID removes an app id from both collections unconditionally
// and persists. Removing an absent id is a no-op; completion tracking does
// not need to know which collection the entry lived in.
func (s *Store) RemoveByAppID(appID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.single = removeFrom(s.single, appID)
	s.multi = removeFrom(s.multi, appID)

	return s.persistLocked()
}

// Snapshot returns copies of both collections in insertion order.
func (s *Store) Snapshot() (single, multi []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	single = make([]Entry, len(s.single))
	copy(single, s.single)
	multi = make([]Entry, len(s.multi))
	copy(multi, s.multi)
	return single, multi
}

// collectionLocked returns the slice for a collection. Caller holds s.mu.
func (s *Store) collectionLocked(col Collection) []Entry {
	if col == CollectionMulti {
		return s.multi
	}
	return s.single
}

// persistLocked rewrites both collection files. Caller holds s.mu.
func (s *Store) persistLocked() error {
	if err := writeCollection(filepath.Join(s.dir, singleFile), s.single); err != nil {
		return fmt.Errorf("persist single collection: %w", err)
	}
	if err := writeCollection(filepath.Join(s.dir, multiFile), s.multi); err != nil {
		return fmt.Errorf("persist multi collection: %w", err)
	}
	return nil
}

func removeFrom(entries []Entry, appID int) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.AppID != appID {
			out = append(out, e)
		}
	}
	return out
}

func loadCollection(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

func writeCollection(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Package file stores every record kind as a JSON array in its own file
// under a data directory.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	fileUsers    = "users.json"
	fileServices = "services.json"
	fileOrders   = "orders.json"
	fileEvents   = "order_events.json"
	fileSeqs     = "sequences.json"
)

// Store serializes every read-modify-write cycle behind one mutex and
// replaces files atomically, so concurrent requests never clobber each
// other's writes.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open prepares dir for use, creating it when missing.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file store: empty data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Ping checks that the data directory is still writable.
func (s *Store) Ping() error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// load reads all records of one kind. A missing file is an empty set.
// Callers must hold s.mu.
func load[T any](s *Store, name string) ([]T, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return records, nil
}

// save writes all records of one kind through a temp file and a rename.
// Callers must hold s.mu.
func save[T any](s *Store, name string, records []T) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// read runs fn against a snapshot of one record kind.
func read[T any](s *Store, name string, fn func([]T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[T](s, name)
	if err != nil {
		return err
	}
	return fn(records)
}

// mutate loads one record kind, lets fn change it and persists the result.
// Nothing is written when fn fails.
func mutate[T any](s *Store, name string, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[T](s, name)
	if err != nil {
		return err
	}
	records, err = fn(records)
	if err != nil {
		return err
	}
	return save(s, name, records)
}

// sequence is the highest id ever handed out for one record kind.
type sequence struct {
	Kind string `json:"kind"`
	Last int64  `json:"last"`
}

// claimID returns the larger of candidate and one past the recorded high
// water mark for kind, and records it. Ids of deleted records are never
// handed out again. Callers must hold s.mu.
func claimID(s *Store, kind string, candidate int64) (int64, error) {
	seqs, err := load[sequence](s, fileSeqs)
	if err != nil {
		return 0, err
	}

	idx := -1
	for i := range seqs {
		if seqs[i].Kind == kind {
			idx = i
			break
		}
	}
	if idx < 0 {
		seqs = append(seqs, sequence{Kind: kind})
		idx = len(seqs) - 1
	}

	id := max(candidate, seqs[idx].Last+1)
	seqs[idx].Last = id
	if err := save(s, fileSeqs, seqs); err != nil {
		return 0, err
	}
	return id, nil
}

func nextID[T any](records []T, id func(T) int64) int64 {
	var highest int64
	for _, r := range records {
		if v := id(r); v > highest {
			highest = v
		}
	}
	return highest + 1
}

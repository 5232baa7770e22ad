// Package history records generation runs in a bbolt database so a file
// can be traced back to the seed and settings that produced it.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run describes one completed generation.
type Run struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Format      string        `json:"format"`
	Rows        int64         `json:"rows"`
	Seed        uint64        `json:"seed"`
	Bytes       int64         `json:"bytes"`
	Elapsed     time.Duration `json:"elapsed"`
	EmailDomain string        `json:"email_domain"`
	ValidCPF    bool          `json:"valid_cpf"`
	RealDDD     bool          `json:"real_ddd"`
	Err         string        `json:"err,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ShortID returns the first eight characters of the run ID.
func (r Run) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// Store persists runs.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open history: create dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open history: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Save writes a run, assigning an ID and timestamp when missing.
// It returns the stored run.
func (s *Store) Save(r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return Run{}, fmt.Errorf("save run: marshal: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(r.ID), data)
	})
	if err != nil {
		return Run{}, fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return r, nil
}

// Get returns a run by ID or by a unique ID prefix.
func (s *Store) Get(id string) (Run, error) {
	if id == "" {
		return Run{}, ErrNotFound
	}

	var (
		run   Run
		found int
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if v := b.Get([]byte(id)); v != nil {
			found = 1
			return json.Unmarshal(v, &run)
		}

		c := b.Cursor()
		prefix := []byte(id)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			found++
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}

	switch {
	case found == 0:
		return Run{}, ErrNotFound
	case found > 1:
		return Run{}, fmt.Errorf("get run %s: prefix matches %d runs", id, found)
	}
	return run, nil
}

// List returns all runs sorted by CreatedAt descending.
func (s *Store) List() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			runs = append(runs, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// Delete removes a run by ID.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

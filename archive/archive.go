// Package archive persists a record of each CLI solve into a local
// BadgerDB so `gokrylov history` can list past runs. It is CLI-only
// tooling: no solver package (cg, gmres, cgne, minres) imports it, and it
// never sits on the hot path of a solve.
package archive

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// key prefix for every archived run, so a prefix scan finds runs in a
// key-value store that also holds other kinds of keys.
const runPrefix = "run:"

// Record captures everything about one solver invocation worth recalling
// later: which method ran, against a system of what size, when, and with
// what outcome.
type Record struct {
	UUID      string
	Timestamp time.Time
	Method    string // "cg", "gmres", "cgne", or "minres"
	N         int    // operator size (rows for cgne)
	Niter     int
	Solved    bool
	Status    string
	Residual  float64 // final (or best known) residual norm
}

func runKey(id string) []byte {
	return []byte(runPrefix + id)
}

// Store wraps a BadgerDB handle scoped to archived runs.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the archive database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("archive: opening badger at %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save assigns a fresh UUID and timestamp to rec (overwriting any it
// already carries) and persists it.
func (s *Store) Save(rec Record) (Record, error) {
	rec.UUID = uuid.NewString()
	rec.Timestamp = time.Now()

	data, err := encodeRecord(&rec)
	if err != nil {
		return Record{}, fmt.Errorf("archive: encoding record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rec.UUID), data)
	})
	if err != nil {
		return Record{}, fmt.Errorf("archive: writing record: %w", err)
	}
	return rec, nil
}

// List returns every archived run, oldest first, via a run: prefix scan.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(runPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rec, err := decodeRecord(val)
				if err != nil {
					return err
				}
				records = append(records, *rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive: listing records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Timestamp.Before(records[j].Timestamp) })
	return records, nil
}

func encodeRecord(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

package store

import (
	"fmt"
	"sort"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/recstore/pkg/record"
)

// RecordStore holds records that all share the same set of field names.
// The schema is defined by the first record inserted into an empty store.
//
// A RecordStore is not safe for concurrent use; callers sharing one must
// serialize access themselves.
type RecordStore struct {
	records map[string]*record.Record
	schema  []string // sorted; nil while the store is empty
}

// New creates an empty record store
func New() *RecordStore {
	return &RecordStore{records: make(map[string]*record.Record)}
}

// Len returns the number of records
func (s *RecordStore) Len() int {
	return len(s.records)
}

// Contains reports whether a record with the given id exists
func (s *RecordStore) Contains(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Get returns a copy of the record stored under id. Modifying the returned
// record does not affect the store.
func (s *RecordStore) Get(id string) (*record.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %q: %w", id, ErrKeyNotFound)
	}
	return rec.Clone(), nil
}

// RecordIDs returns every record id in sorted order
func (s *RecordStore) RecordIDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Schema returns the sorted field names shared by every record, or nil when
// the store is empty.
func (s *RecordStore) Schema() []string {
	if s.schema == nil {
		return nil
	}
	out := make([]string, len(s.schema))
	copy(out, s.schema)
	return out
}

// Insert stores a copy of rec under id.
func (s *RecordStore) Insert(id string, rec *record.Record) error {
	if id == ReservedID {
		return fmt.Errorf("record %q: %w", id, ErrReservedKey)
	}
	if _, exists := s.records[id]; exists {
		return fmt.Errorf("record %q: %w", id, ErrDuplicateKey)
	}

	names := rec.FieldNames()
	if len(s.records) > 0 && !sameNames(s.schema, names) {
		return &SchemaError{ID: id, Expected: s.Schema(), Actual: names}
	}

	if len(s.records) == 0 {
		s.schema = names
	}
	s.records[id] = rec.Clone()
	return nil
}

// InsertGenerated stores a copy of rec under a freshly generated KSUID and
// returns that id.
func (s *RecordStore) InsertGenerated(rec *record.Record) (string, error) {
	id := ksuid.New().String()
	if err := s.Insert(id, rec); err != nil {
		return "", err
	}
	return id, nil
}

// Remove deletes the record stored under id. Removing a missing id is a no-op.
func (s *RecordStore) Remove(id string) {
	if _, ok := s.records[id]; !ok {
		return
	}
	delete(s.records, id)
	if len(s.records) == 0 {
		s.schema = nil
	}
}

// RemoveAll removes every listed id
func (s *RecordStore) RemoveAll(ids []string) {
	for _, id := range ids {
		s.Remove(id)
	}
}

// Clone returns an independent deep copy of the store
func (s *RecordStore) Clone() *RecordStore {
	c := &RecordStore{
		records: make(map[string]*record.Record, len(s.records)),
		schema:  s.Schema(),
	}
	for id, rec := range s.records {
		c.records[id] = rec.Clone()
	}
	return c
}

// Stats returns record and field counts
func (s *RecordStore) Stats() Stats {
	return Stats{Records: len(s.records), Fields: len(s.schema)}
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

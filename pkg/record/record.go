// Package record provides the Record type: a set of named text fields
// describing one entity held in a record store.
package record

import (
	"errors"
	"fmt"
	"sort"
)

// ErrKeyNotFound is returned when a lookup names a field or record that does
// not exist.
var ErrKeyNotFound = errors.New("key not found")

// Record maps field names to text values. Field names are unique and are
// always enumerated in sorted order.
type Record struct {
	fields map[string]string
}

// New creates an empty record
func New() *Record {
	return &Record{fields: make(map[string]string)}
}

// FromMap creates a record holding a copy of the given fields
func FromMap(fields map[string]string) *Record {
	r := &Record{fields: make(map[string]string, len(fields))}
	for name, value := range fields {
		r.fields[name] = value
	}
	return r
}

// Add sets the value of a field, overwriting any previous value.
func (r *Record) Add(name, value string) {
	if r.fields == nil {
		r.fields = make(map[string]string)
	}
	r.fields[name] = value
}

// Get returns the value of a field
func (r *Record) Get(name string) (string, error) {
	value, ok := r.fields[name]
	if !ok {
		return "", fmt.Errorf("field %q: %w", name, ErrKeyNotFound)
	}
	return value, nil
}

// FieldNames returns the record's field names in sorted order.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields
func (r *Record) Len() int {
	return len(r.fields)
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	return FromMap(r.fields)
}

// Map returns a copy of the record's fields.
func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.fields))
	for name, value := range r.fields {
		m[name] = value
	}
	return m
}

// HasSameFields reports whether both records expose exactly the same set of
// field names. Values are not compared.
func (r *Record) HasSameFields(other *Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for name := range r.fields {
		if _, ok := other.fields[name]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether both records hold the same fields and values.
func (r *Record) Equal(other *Record) bool {
	if !r.HasSameFields(other) {
		return false
	}
	for name, value := range r.fields {
		if other.fields[name] != value {
			return false
		}
	}
	return true
}

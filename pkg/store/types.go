package store

import (
	"fmt"
	"strings"

	"github.com/ssargent/recstore/pkg/codec"
	"github.com/ssargent/recstore/pkg/record"
)

// ReservedID cannot be used as a record identifier; it collides with the
// schema marker in the file format.
var ReservedID = strings.TrimPrefix(codec.SchemaMarker, string(codec.RecordMarker))

// Stats summarises the contents of a store
type Stats struct {
	Records int `json:"records"`
	Fields  int `json:"fields"`
}

// Errors
var (
	ErrKeyNotFound    = record.ErrKeyNotFound
	ErrReservedKey    = &StoreError{"reserved key"}
	ErrDuplicateKey   = &StoreError{"duplicate key"}
	ErrSchemaMismatch = &StoreError{"schema mismatch"}
	ErrMalformedFile  = codec.ErrMalformedFile
	ErrUnencodable    = codec.ErrUnencodable
)

// StoreError represents a record store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// SchemaError describes a record whose field names differ from the store's
// schema. It unwraps to ErrSchemaMismatch.
type SchemaError struct {
	ID       string
	Expected []string
	Actual   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %q: schema mismatch: expected fields [%s], got [%s]",
		e.ID, strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

package store

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/ssargent/recstore/pkg/codec"
	"github.com/ssargent/recstore/pkg/record"
)

// Encode writes the store in the record file format. Records are written in
// sorted id order, fields in sorted name order.
func (s *RecordStore) Encode(w io.Writer, opts codec.Options) error {
	ids := s.RecordIDs()
	entries := make([]codec.Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, codec.Entry{ID: id, Record: s.records[id]})
	}
	return codec.NewRecordCodec(opts).Encode(w, s.schema, entries)
}

// Save writes the store to path with default options.
func (s *RecordStore) Save(path string) error {
	return s.SaveWithOptions(path, codec.Options{})
}

// SaveWithOptions writes the store to path. The file is replaced atomically:
// readers see either the previous contents or the complete new contents. An
// empty store produces an empty file.
func (s *RecordStore) SaveWithOptions(path string, opts codec.Options) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf, opts); err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write store file %s: %w", path, err)
	}
	return nil
}

// Decode builds a new store from the record file format. Every record is
// validated as by Insert. On any error no store is returned.
func Decode(r io.Reader, opts codec.Options) (*RecordStore, error) {
	s := New()
	err := codec.NewRecordCodec(opts).Decode(r, func(id string, rec *record.Record) error {
		return s.Insert(id, rec)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the store saved at path with default options.
func Load(path string) (*RecordStore, error) {
	return LoadWithOptions(path, codec.Options{})
}

// LoadWithOptions reads the store saved at path.
func LoadWithOptions(path string, opts codec.Options) (*RecordStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	s, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load store file %s: %w", path, err)
	}
	return s, nil
}

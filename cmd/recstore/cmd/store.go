package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ssargent/recstore/pkg/codec"
	"github.com/ssargent/recstore/pkg/record"
	"github.com/ssargent/recstore/pkg/store"
)

// openStore loads the record file at path. A missing file is an empty store.
func openStore(path string, opts codec.Options) (*store.RecordStore, error) {
	st, err := store.LoadWithOptions(path, opts)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("record file not found, starting empty", "path", path)
		return store.New(), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded records", "path", path, "records", st.Len())
	return st, nil
}

// saveStore writes st to path, creating the parent directory if needed
func saveStore(st *store.RecordStore, path string, opts codec.Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := st.SaveWithOptions(path, opts); err != nil {
		return err
	}
	logger.Debug("saved records", "path", path, "records", st.Len())
	return nil
}

// parseFields turns field=value arguments into a record. The first '='
// separates name from value; values may contain further '=' characters.
func parseFields(args []string) (*record.Record, error) {
	rec := record.New()
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q: expected name=value", arg)
		}
		if name == "" {
			return nil, fmt.Errorf("invalid field %q: empty field name", arg)
		}
		rec.Add(name, value)
	}
	return rec, nil
}

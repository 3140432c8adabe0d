// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/ssargent/recstore/pkg/record"
	"github.com/ssargent/recstore/pkg/store"
)

// RecordStore defines the store operations the server uses
type RecordStore interface {
	Contains(id string) bool
	Get(id string) (*record.Record, error)
	RecordIDs() []string
	Insert(id string, rec *record.Record) error
	Remove(id string)
	Schema() []string
	Stats() store.Stats
	Clone() *store.RecordStore
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the store until ctx is cancelled
	StartServer(ctx context.Context, st RecordStore, config ServerConfig, logger *slog.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}

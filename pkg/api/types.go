package api

import (
	"github.com/ssargent/recstore/pkg/codec"
	"github.com/ssargent/recstore/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RecordResponse is a single record as returned by the API
type RecordResponse struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// SchemaResponse lists the field names every record shares
type SchemaResponse struct {
	Fields []string    `json:"fields"`
	Stats  store.Stats `json:"stats"`
}

// DeleteResponse reports whether a record was present before removal
type DeleteResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// SaveResponse reports a completed save
type SaveResponse struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port     int
	Bind     string
	APIKey   string // empty disables authentication
	DataFile string // target of POST /save
	Codec    codec.Options
}

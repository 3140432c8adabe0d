package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/recstore/pkg/record"
	"github.com/ssargent/recstore/pkg/store"
)

const maxBodyBytes = 1 << 20

// Server holds the API server state. The record store is not safe for
// concurrent use, so every handler holds mu while touching it. saveMu
// orders writes of the data file; saves encode a copy taken under mu.
type Server struct {
	mu      sync.Mutex
	saveMu  sync.Mutex
	store   RecordStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(st RecordStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   st,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
	s.metrics.UpdateStoreStats(st.Stats())
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	s.mu.Lock()
	ids := s.store.RecordIDs()
	s.mu.Unlock()

	s.metrics.RecordStoreOperation("list", true, time.Since(start))
	sendSuccess(w, ids)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := recordID(w, r)
	if !ok {
		s.metrics.RecordStoreOperation("get", false, time.Since(start))
		return
	}

	s.mu.Lock()
	rec, err := s.store.Get(id)
	s.mu.Unlock()

	s.metrics.RecordStoreOperation("get", err == nil, time.Since(start))
	if err != nil {
		sendError(w, err.Error(), statusForError(err))
		return
	}
	sendSuccess(w, RecordResponse{ID: id, Fields: rec.Map()})
}

func (s *Server) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := recordID(w, r)
	if !ok {
		s.metrics.RecordStoreOperation("insert", false, time.Since(start))
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&fields); err != nil {
		s.metrics.RecordStoreOperation("insert", false, time.Since(start))
		sendError(w, fmt.Sprintf("Invalid JSON object in request body: %v", err), http.StatusBadRequest)
		return
	}

	rec := record.FromMap(fields)
	status := http.StatusCreated

	s.mu.Lock()
	err := s.store.Insert(id, rec)
	if errors.Is(err, store.ErrDuplicateKey) {
		// Repeating a PUT with the stored fields is a no-op
		if existing, getErr := s.store.Get(id); getErr == nil && existing.Equal(rec) {
			err = nil
			status = http.StatusOK
		}
	}
	stats := s.store.Stats()
	s.mu.Unlock()

	s.metrics.RecordStoreOperation("insert", err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug("insert rejected", "id", id, "error", err)
		sendError(w, err.Error(), statusForError(err))
		return
	}
	s.metrics.UpdateStoreStats(stats)
	sendJSON(w, status, RecordResponse{ID: id, Fields: fields})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := recordID(w, r)
	if !ok {
		s.metrics.RecordStoreOperation("remove", false, time.Since(start))
		return
	}

	s.mu.Lock()
	existed := s.store.Contains(id)
	s.store.Remove(id)
	stats := s.store.Stats()
	s.mu.Unlock()

	s.metrics.RecordStoreOperation("remove", true, time.Since(start))
	s.metrics.UpdateStoreStats(stats)
	sendSuccess(w, DeleteResponse{ID: id, Removed: existed})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := SchemaResponse{Fields: s.store.Schema(), Stats: s.store.Stats()}
	s.mu.Unlock()

	if resp.Fields == nil {
		resp.Fields = []string{}
	}
	sendSuccess(w, resp)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if s.config.DataFile == "" {
		s.metrics.RecordStoreOperation("save", false, time.Since(start))
		sendError(w, "No data file configured", http.StatusInternalServerError)
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	snap := s.store.Clone()
	s.mu.Unlock()

	err := snap.SaveWithOptions(s.config.DataFile, s.config.Codec)
	records := snap.Len()

	s.metrics.RecordStoreOperation("save", err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("save failed", "path", s.config.DataFile, "error", err)
		sendError(w, err.Error(), statusForError(err))
		return
	}
	s.logger.Info("store saved", "path", s.config.DataFile, "records", records)
	sendSuccess(w, SaveResponse{Path: s.config.DataFile, Records: records})
}

// recordID extracts the unescaped {id} path parameter
func recordID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := url.PathUnescape(raw)
	if err != nil {
		sendError(w, "Invalid record id encoding", http.StatusBadRequest)
		return "", false
	}
	if id == "" {
		sendError(w, "Record id is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

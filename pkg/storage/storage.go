// Package storage keeps an archive of encoded record store snapshots in a
// pebble database, keyed by KSUID so keys sort by creation time.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// ErrSnapshotNotFound is returned when no snapshot exists for an id
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotInfo describes one archived snapshot
type SnapshotInfo struct {
	ID        ksuid.KSUID `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Size      int         `json:"size"`
}

type SnapshotStorage struct {
	db *pebble.DB
}

func NewSnapshotStorage(path string) (*SnapshotStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot archive %s: %w", path, err)
	}
	return &SnapshotStorage{db: db}, nil
}

// Create archives data under a new id
func (s *SnapshotStorage) Create(data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

func (s *SnapshotStorage) Read(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
		}
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer is closed
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *SnapshotStorage) Delete(id ksuid.KSUID) error {
	if _, err := s.Read(id); err != nil {
		return err
	}
	return s.db.Delete(id.Bytes(), pebble.Sync)
}

// List returns every snapshot, oldest first
func (s *SnapshotStorage) List() ([]SnapshotInfo, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, err
	}

	var infos []SnapshotInfo
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			_ = iter.Close()
			return nil, fmt.Errorf("invalid snapshot key %x: %w", iter.Key(), err)
		}
		infos = append(infos, SnapshotInfo{
			ID:        id,
			CreatedAt: id.Time(),
			Size:      len(iter.Value()),
		})
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *SnapshotStorage) Close() error {
	return s.db.Close()
}

package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// ReadingStore is a simple in-memory implementation of domain.ReadingStore.
// It is NOT persistent and is only suitable for development / local mode.
type ReadingStore struct {
	mu       sync.RWMutex
	readings map[domain.ReadingID]*domain.ReadingRecord
	byUserID map[domain.UserID][]domain.ReadingID
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{
		readings: make(map[domain.ReadingID]*domain.ReadingRecord),
		byUserID: make(map[domain.UserID][]domain.ReadingID),
	}
}

// AppendReading saves a record.
func (s *ReadingStore) AppendReading(_ context.Context, rec *domain.ReadingRecord) error {
	if rec == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = domain.ReadingID(uuid.NewString())
	}

	s.readings[rec.ID] = rec
	s.byUserID[rec.UserID] = append(s.byUserID[rec.UserID], rec.ID)
	return nil
}

// ListReadingsByUser returns the last `limit` records for a user, newest first.
// If limit <= 0, returns all.
func (s *ReadingStore) ListReadingsByUser(_ context.Context, userID domain.UserID, limit int) ([]*domain.ReadingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserID[userID]
	if len(ids) == 0 {
		return []*domain.ReadingRecord{}, nil
	}

	n := len(ids)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*domain.ReadingRecord, 0, n)
	for i := len(ids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.readings[ids[i]])
	}
	return out, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// ProfileStore keeps callers' birth data in memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[domain.UserID]domain.BirthData
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[domain.UserID]domain.BirthData),
	}
}

func (s *ProfileStore) SaveBirthData(_ context.Context, userID domain.UserID, data domain.BirthData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[userID] = data
	return nil
}

func (s *ProfileStore) GetBirthData(_ context.Context, userID domain.UserID) (*domain.BirthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &data, nil
}

package readings

import (
	"context"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service holds the logic of reading a user's reading history.
type Service struct {
	store domain.ReadingStore
}

// NewService creates a readings service from a ReadingStore.
func NewService(store domain.ReadingStore) *Service {
	return &Service{
		store: store,
	}
}

// ListByUser returns the last `limit` readings for a user, newest first.
// If limit <= 0 the default is used; it is capped at MaxLimit.
func (s *Service) ListByUser(
	ctx context.Context,
	userID domain.UserID,
	limit int,
) ([]*domain.ReadingRecord, error) {

	if s.store == nil {
		return []*domain.ReadingRecord{}, nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	return s.store.ListReadingsByUser(ctx, userID, limit)
}

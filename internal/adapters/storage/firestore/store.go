package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// Store keeps profiles in users/{id} and readings in users/{id}/readings.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (ORACLE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) userDoc(id domain.UserID) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(string(id))
}

func (s *Store) readingsCol(userID domain.UserID) *firestore.CollectionRef {
	return s.userDoc(userID).Collection("readings")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type birthDataDoc struct {
	Name      string           `firestore:"name"`
	Date      domain.BirthDate `firestore:"date"`
	Time      string           `firestore:"time"`
	Latitude  float64          `firestore:"latitude"`
	Longitude float64          `firestore:"longitude"`
	Timezone  string           `firestore:"timezone"`
}

type readingDoc struct {
	SessionID string         `firestore:"session_id"`
	UserID    string         `firestore:"user_id"`
	PersonaID string         `firestore:"persona_id"`
	Kind      string         `firestore:"kind"`
	Context   string         `firestore:"context"`
	Payload   map[string]any `firestore:"payload"`
	ImageRef  string         `firestore:"image_ref"`
	CreatedAt time.Time      `firestore:"created_at"`
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveBirthData(ctx context.Context, userID domain.UserID, data domain.BirthData) error {
	doc := map[string]interface{}{
		"birth_data": birthDataDoc(data),
		"updated_at": time.Now().UTC(),
	}

	_, err := s.userDoc(userID).Set(ctx, doc, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore SaveBirthData: %w", err)
	}
	return nil
}

func (s *Store) GetBirthData(ctx context.Context, userID domain.UserID) (*domain.BirthData, error) {
	snap, err := s.userDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
		}
		return nil, fmt.Errorf("firestore GetBirthData: %w", err)
	}

	var doc struct {
		BirthData *birthDataDoc `firestore:"birth_data"`
	}
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetBirthData decode: %w", err)
	}
	if doc.BirthData == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, userID)
	}

	data := domain.BirthData(*doc.BirthData)
	return &data, nil
}

// ─────────────────────────────────────────
// ReadingStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendReading(ctx context.Context, rec *domain.ReadingRecord) error {
	if rec == nil {
		return nil
	}

	doc := readingDoc{
		SessionID: string(rec.SessionID),
		UserID:    string(rec.UserID),
		PersonaID: string(rec.PersonaID),
		Kind:      string(rec.Kind),
		Context:   rec.Context,
		Payload:   rec.Payload,
		ImageRef:  rec.ImageRef,
		CreatedAt: rec.CreatedAt,
	}

	col := s.readingsCol(rec.UserID)
	ref := col.NewDoc()
	if rec.ID != "" {
		ref = col.Doc(string(rec.ID))
	}

	if _, err := ref.Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AppendReading: %w", err)
	}
	rec.ID = domain.ReadingID(ref.ID)
	return nil
}

func (s *Store) ListReadingsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ReadingRecord, error) {
	q := s.readingsCol(userID).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.ReadingRecord{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore ListReadingsByUser: %w", err)
		}

		var doc readingDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode readingDoc: %w", err)
		}

		out = append(out, &domain.ReadingRecord{
			ID:        domain.ReadingID(snap.Ref.ID),
			SessionID: domain.SessionID(doc.SessionID),
			UserID:    domain.UserID(doc.UserID),
			PersonaID: domain.PersonaID(doc.PersonaID),
			Kind:      domain.MessageKind(doc.Kind),
			Context:   doc.Context,
			Payload:   doc.Payload,
			ImageRef:  doc.ImageRef,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

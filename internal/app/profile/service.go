// Package profile manages the caller's own birth data, the prerequisite
// for forecasts and compatibility checks.
package profile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloGalante/farum-oracle/internal/app/dateinput"
	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

var timePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// BirthDataInput is birth data as typed by a user.
type BirthDataInput struct {
	Name      string
	Date      string
	Time      string
	Latitude  float64
	Longitude float64
	Timezone  string
}

type Service struct {
	store domain.ProfileStore
}

func NewService(store domain.ProfileStore) *Service {
	return &Service{store: store}
}

// SaveBirthData validates the input and stores it for the user.
func (s *Service) SaveBirthData(ctx context.Context, userID domain.UserID, in BirthDataInput) (domain.BirthData, error) {
	date, err := dateinput.Parse(in.Date)
	if err != nil {
		return domain.BirthData{}, err
	}

	tm := strings.TrimSpace(in.Time)
	if tm != "" && !timePattern.MatchString(tm) {
		return domain.BirthData{}, &domain.ValidationError{Input: in.Time, Reason: "expected HH:MM"}
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return domain.BirthData{}, &domain.ValidationError{Input: fmt.Sprint(in.Latitude), Reason: "latitude out of range"}
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return domain.BirthData{}, &domain.ValidationError{Input: fmt.Sprint(in.Longitude), Reason: "longitude out of range"}
	}

	data := domain.BirthData{
		Name:      strings.TrimSpace(in.Name),
		Date:      date,
		Time:      tm,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Timezone:  strings.TrimSpace(in.Timezone),
	}
	if err := s.store.SaveBirthData(ctx, userID, data); err != nil {
		return domain.BirthData{}, fmt.Errorf("save birth data: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("birth data saved", "user_id", userID)
	return data, nil
}

func (s *Service) GetBirthData(ctx context.Context, userID domain.UserID) (*domain.BirthData, error) {
	return s.store.GetBirthData(ctx, userID)
}

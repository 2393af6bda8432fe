package cards

import (
	"fmt"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// UprightProbability is the chance that a drawn card lands upright.
const UprightProbability = 0.7

// ThreeCardPositions label a past/present/future spread.
var ThreeCardPositions = [3]string{"Past", "Present", "Future"}

// Service draws unique cards from the major arcana.
// It keeps no state between calls besides the injected RNG.
type Service struct {
	rng domain.RNG
}

func NewService(rng domain.RNG) *Service {
	return &Service{rng: rng}
}

// Draw returns count distinct cards. Positions are Past/Present/Future for a
// three card spread and "Card N" (1-based) otherwise.
func (s *Service) Draw(count int) ([]domain.DrawnCard, error) {
	deck := domain.MajorArcana
	if count < 1 || count > len(deck) {
		return nil, domain.ErrInvalidCardCount
	}

	names := deck[:]
	// Fisher-Yates from the back; the first count slots end up shuffled.
	for i := len(names) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		names[i], names[j] = names[j], names[i]
	}

	out := make([]domain.DrawnCard, count)
	for i := range count {
		out[i] = domain.DrawnCard{
			Name:      names[i],
			IsUpright: s.rng.Float64() < UprightProbability,
			Position:  positionLabel(count, i),
		}
	}
	return out, nil
}

func positionLabel(count, i int) string {
	if count == len(ThreeCardPositions) {
		return ThreeCardPositions[i]
	}
	return fmt.Sprintf("Card %d", i+1)
}

// SpreadFor names the spread a count of cards forms.
func SpreadFor(count int) domain.SpreadType {
	if count == len(ThreeCardPositions) {
		return domain.SpreadThreeCard
	}
	return domain.SpreadGeneric
}

package llm

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// MockGateway answers every call locally and deterministically.
// Used in local mode, by the CLI and in tests.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) SendChatTurn(_ context.Context, req domain.ChatTurnRequest) (string, error) {
	return fmt.Sprintf("I hear you. You said %q. Tell me a little more about how that feels.", req.Message), nil
}

func (m *MockGateway) GenerateReading(_ context.Context, req domain.ReadingRequest) (domain.ReadingResult, error) {
	orientation := "upright"
	if !req.IsUpright {
		orientation = "reversed"
	}
	return domain.ReadingResult{
		Interpretation: fmt.Sprintf("%s appears %s in answer to %q. Let it guide your next small step.", req.PrimaryCard, orientation, req.Question),
	}, nil
}

func (m *MockGateway) GetForecast(_ context.Context, req domain.ForecastRequest) (domain.ForecastResult, error) {
	return domain.ForecastResult{
		Text:       fmt.Sprintf("Born on %s, today favors patience and honest conversations.", req.BirthData.Date),
		CosmicVibe: "Steady",
		FocusAreas: []string{"relationships", "rest"},
	}, nil
}

// CalculateCompatibility derives a stable score in [40, 100] from both dates.
func (m *MockGateway) CalculateCompatibility(_ context.Context, req domain.CompatibilityRequest) (domain.CompatibilityResult, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(req.User.Date.String() + "|" + req.Partner.Date.String()))
	return domain.CompatibilityResult{
		Score: 40 + int(h.Sum32()%61),
	}, nil
}

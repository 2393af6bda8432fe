package domain

import "context"

// ChatTurn is one prior exchange given to the chat model as context.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatTurnRequest struct {
	SessionID SessionID
	Message   string
	PersonaID PersonaID
	History   []ChatTurn // oldest first
}

type ReadingRequest struct {
	UserID      UserID
	Question    string
	SpreadType  SpreadType
	PrimaryCard string
	IsUpright   bool
	PersonaID   PersonaID
}

type ReadingResult struct {
	Interpretation string
}

type ForecastRequest struct {
	UserID    UserID
	BirthData BirthData
	PersonaID PersonaID
}

type ForecastResult struct {
	Text       string   `json:"forecast_text"`
	CosmicVibe string   `json:"cosmic_vibe,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

type CompatibilityRequest struct {
	User      BirthData
	Partner   BirthData
	PersonaID PersonaID
}

type CompatibilityResult struct {
	Score            int
	Level            string
	NarrativeSummary string
	Sections         []CompatibilitySection
}

// Gateway is the boundary to the external generation services.
// Implementations own timeouts; any error is treated as a gateway failure.
type Gateway interface {
	SendChatTurn(ctx context.Context, req ChatTurnRequest) (string, error)
	GenerateReading(ctx context.Context, req ReadingRequest) (ReadingResult, error)
	GetForecast(ctx context.Context, req ForecastRequest) (ForecastResult, error)
	CalculateCompatibility(ctx context.Context, req CompatibilityRequest) (CompatibilityResult, error)
}

// ProfileStore holds the caller's own birth data.
type ProfileStore interface {
	GetBirthData(ctx context.Context, userID UserID) (*BirthData, error)
	SaveBirthData(ctx context.Context, userID UserID, data BirthData) error
}

// ReadingStore persists completed readings.
type ReadingStore interface {
	AppendReading(ctx context.Context, rec *ReadingRecord) error
	ListReadingsByUser(ctx context.Context, userID UserID, limit int) ([]*ReadingRecord, error)
}

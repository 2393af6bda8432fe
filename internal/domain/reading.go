package domain

import "time"

type ReadingID string

// ReadingRecord is the normalized form of a completed card reading, forecast
// or compatibility report, handed to persistence.
type ReadingRecord struct {
	ID        ReadingID      `json:"id"`
	SessionID SessionID      `json:"session_id"`
	UserID    UserID         `json:"user_id"`
	PersonaID PersonaID      `json:"persona_id"`
	Kind      MessageKind    `json:"kind"`
	Context   string         `json:"context"`
	Payload   map[string]any `json:"payload"`
	ImageRef  string         `json:"image_ref,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

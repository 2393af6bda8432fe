package domain

import "time"

type SessionID string
type UserID string
type MessageID string
type PersonaID string
type ActionID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time

// RNG abstracts the randomness source so draws and fallbacks are deterministic in tests.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

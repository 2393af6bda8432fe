package conversation

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-oracle/internal/app/cards"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

var (
	// ErrBusy is returned when a gateway call is already outstanding for the session.
	ErrBusy          = errors.New("another request is in progress")
	ErrEmptyInput    = errors.New("empty input")
	ErrUnknownAction = errors.New("unknown action")
)

// Options tune a conversation. Zero values fall back to the defaults,
// except ActionDelay where zero means "offer the action immediately".
type Options struct {
	// ActionDelay is how long after the welcome the persona's primary action is offered.
	ActionDelay time.Duration
	// HistoryWindow is how many prior text messages are sent with a chat turn.
	HistoryWindow int
	// CardInviteEvery: card readers invite a draw after a chat reply once this many
	// messages have been appended since the previous invite.
	CardInviteEvery int
	// CardCount is the spread size.
	CardCount int
}

func DefaultOptions() Options {
	return Options{
		ActionDelay:     800 * time.Millisecond,
		HistoryWindow:   10,
		CardInviteEvery: 4,
		CardCount:       3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = d.HistoryWindow
	}
	if o.CardInviteEvery <= 0 {
		o.CardInviteEvery = d.CardInviteEvery
	}
	if o.CardCount <= 0 {
		o.CardCount = d.CardCount
	}
	return o
}

// Deps are the collaborators a controller is built from.
type Deps struct {
	Gateway  domain.Gateway
	Cards    *cards.Service
	Profiles domain.ProfileStore
	Readings domain.ReadingStore // optional
	RNG      domain.RNG

	Now   func() time.Time
	NewID func() string
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.RNG == nil {
		d.RNG = globalRNG{}
	}
	if d.Cards == nil {
		d.Cards = cards.NewService(d.RNG)
	}
	return d
}

// globalRNG uses the top-level math/rand/v2 source, which is safe to share
// between sessions.
type globalRNG struct{}

func (globalRNG) IntN(n int) int   { return rand.IntN(n) }
func (globalRNG) Float64() float64 { return rand.Float64() }

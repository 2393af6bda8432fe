package domain

import (
	"fmt"
	"strings"
)

// MessageKind tags which payload a Message carries.
type MessageKind string

const (
	KindText          MessageKind = "text"
	KindAction        MessageKind = "action"
	KindCardReading   MessageKind = "card_reading"
	KindForecast      MessageKind = "forecast"
	KindCompatibility MessageKind = "compatibility"
)

// Message is one entry of a conversation timeline.
// Exactly one payload pointer is set, the one matching Kind.
type Message struct {
	ID        MessageID
	Kind      MessageKind
	IsUser    bool
	CreatedAt Timestamp

	Text          *TextPayload
	Action        *ActionPayload
	CardReading   *CardReading
	Forecast      *Forecast
	Compatibility *Compatibility
}

type TextPayload struct {
	Body string
}

// ActionOption is a button offered to the user. Activating it sends ActionID back to the controller.
type ActionOption struct {
	Label    string
	ActionID ActionID
}

type ActionPayload struct {
	Body    string
	Options []ActionOption
}

type CardReading struct {
	Question       string
	Spread         SpreadType
	Cards          []DrawnCard
	Interpretation string
}

type Forecast struct {
	Text       string
	CosmicVibe string   // optional
	FocusAreas []string // optional
}

// CompatibilitySection is one titled block of a structured compatibility analysis.
type CompatibilitySection struct {
	Title string
	Body  string
}

type Compatibility struct {
	Score       int // 0-100
	Level       string
	PartnerName string
	Summary     string
	Sections    []CompatibilitySection // optional structured analysis
	Analysis    string                 // optional free-text analysis
}

func NewTextMessage(id MessageID, isUser bool, at Timestamp, body string) Message {
	return Message{
		ID:        id,
		Kind:      KindText,
		IsUser:    isUser,
		CreatedAt: at,
		Text:      &TextPayload{Body: body},
	}
}

func NewActionMessage(id MessageID, at Timestamp, body string, options ...ActionOption) Message {
	return Message{
		ID:        id,
		Kind:      KindAction,
		CreatedAt: at,
		Action:    &ActionPayload{Body: body, Options: options},
	}
}

func NewCardReadingMessage(id MessageID, at Timestamp, reading CardReading) Message {
	return Message{
		ID:          id,
		Kind:        KindCardReading,
		CreatedAt:   at,
		CardReading: &reading,
	}
}

func NewForecastMessage(id MessageID, at Timestamp, forecast Forecast) Message {
	return Message{
		ID:        id,
		Kind:      KindForecast,
		CreatedAt: at,
		Forecast:  &forecast,
	}
}

func NewCompatibilityMessage(id MessageID, at Timestamp, c Compatibility) Message {
	return Message{
		ID:            id,
		Kind:          KindCompatibility,
		CreatedAt:     at,
		Compatibility: &c,
	}
}

// Role reports who authored the message in chat-completion terms.
func (m Message) Role() Role {
	if m.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// Body renders the message as plain text.
func (m Message) Body() string {
	switch m.Kind {
	case KindText:
		return m.Text.Body
	case KindAction:
		labels := make([]string, 0, len(m.Action.Options))
		for _, o := range m.Action.Options {
			labels = append(labels, "["+o.Label+"]")
		}
		if len(labels) == 0 {
			return m.Action.Body
		}
		return m.Action.Body + " " + strings.Join(labels, " ")
	case KindCardReading:
		var b strings.Builder
		for i, c := range m.CardReading.Cards {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", c.Position, c.Label())
		}
		if m.CardReading.Interpretation != "" {
			b.WriteString("\n")
			b.WriteString(m.CardReading.Interpretation)
		}
		return b.String()
	case KindForecast:
		out := m.Forecast.Text
		if m.Forecast.CosmicVibe != "" {
			out = "Cosmic vibe: " + m.Forecast.CosmicVibe + "\n" + out
		}
		if len(m.Forecast.FocusAreas) > 0 {
			out += "\nFocus: " + strings.Join(m.Forecast.FocusAreas, ", ")
		}
		return out
	case KindCompatibility:
		c := m.Compatibility
		return fmt.Sprintf("You & %s: %d%% (%s)\n%s", c.PartnerName, c.Score, c.Level, c.Summary)
	default:
		return ""
	}
}

package conversation

import (
	"context"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

const (
	ActionDrawCards          domain.ActionID = "draw_cards"
	ActionDrawAgain          domain.ActionID = "draw_again"
	ActionDailyForecast      domain.ActionID = "daily_forecast"
	ActionStartCompatibility domain.ActionID = "start_compatibility"
	ActionAskQuestion        domain.ActionID = "ask_question"
)

// DrawEcho is the user line recorded with a successful draw.
const DrawEcho = "Draw my cards"

const (
	msgForecastNeedsBirthData      = "I need your birth date before I can read your forecast. Add it to your profile and ask me again."
	msgCompatibilityNeedsBirthData = "I need your own birth date before I can compare charts. Add it to your profile and start the compatibility check again; I'll remember your partner's details."
	msgStillWorking                = "I'm still working on your last request."
	defaultQuestion                = "What do the cards reveal for me right now?"
	minQuestionLen                 = 5
)

var actionTable = map[domain.ActionID]func(*Controller, context.Context) error{
	ActionDrawCards:          (*Controller).DrawCards,
	ActionDrawAgain:          (*Controller).DrawCards,
	ActionDailyForecast:      (*Controller).FetchForecast,
	ActionStartCompatibility: (*Controller).StartCompatibility,
	ActionAskQuestion: func(c *Controller, _ context.Context) error {
		return c.AskQuestion()
	},
}

type offer struct {
	body    string
	options []domain.ActionOption
}

// primaryOffer is the action seeded shortly after the welcome message.
func primaryOffer(f domain.FeatureCategory) offer {
	switch f {
	case domain.FeatureCardReading:
		return offer{
			body:    "Shall I draw three cards for you?",
			options: []domain.ActionOption{{Label: "Draw Cards", ActionID: ActionDrawCards}},
		}
	case domain.FeatureForecast:
		return offer{
			body:    "Want to see what today holds for you?",
			options: []domain.ActionOption{{Label: "Daily Forecast", ActionID: ActionDailyForecast}},
		}
	case domain.FeatureCompatibility:
		return offer{
			body:    "Curious how you and someone else match up?",
			options: []domain.ActionOption{{Label: "Start Compatibility", ActionID: ActionStartCompatibility}},
		}
	default:
		return offer{
			body:    "Whenever you're ready, ask me anything.",
			options: []domain.ActionOption{{Label: "Ask a Question", ActionID: ActionAskQuestion}},
		}
	}
}

var (
	afterReading = offer{
		body: "What would you like to do next?",
		options: []domain.ActionOption{
			{Label: "Draw Again", ActionID: ActionDrawAgain},
			{Label: "Ask a Question", ActionID: ActionAskQuestion},
		},
	}
	afterForecast = offer{
		body: "Anything you want to dig into?",
		options: []domain.ActionOption{
			{Label: "Ask a Question", ActionID: ActionAskQuestion},
			{Label: "Draw Cards", ActionID: ActionDrawCards},
		},
	}
	cardInvite = offer{
		body:    "Would you like the cards to weigh in?",
		options: []domain.ActionOption{{Label: "Draw Cards", ActionID: ActionDrawCards}},
	}
)

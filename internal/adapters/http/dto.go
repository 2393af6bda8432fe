package httpadapter

import (
	"time"

	"github.com/PabloGalante/farum-oracle/internal/app/conversation"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

type createSessionRequest struct {
	UserID    string `json:"user_id"`
	PersonaID string `json:"persona_id"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type birthDataRequest struct {
	Name      string  `json:"name"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

type themeResponse struct {
	Accent string `json:"accent"`
	Icon   string `json:"icon"`
}

type personaResponse struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	Role        string        `json:"role"`
	Feature     string        `json:"feature"`
	Theme       themeResponse `json:"theme"`
}

type sessionResponse struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	PersonaID    string            `json:"persona_id"`
	InFlight     bool              `json:"in_flight"`
	SubFlowState string            `json:"sub_flow_state"`
	Messages     []messageResponse `json:"messages"`
}

type actionOptionResponse struct {
	Label    string `json:"label"`
	ActionID string `json:"action_id"`
}

type actionResponse struct {
	Body    string                 `json:"body"`
	Options []actionOptionResponse `json:"options"`
}

type cardResponse struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	IsUpright   bool   `json:"is_upright"`
	Orientation string `json:"orientation"`
}

type cardReadingResponse struct {
	Question       string         `json:"question"`
	Spread         string         `json:"spread"`
	Cards          []cardResponse `json:"cards"`
	Interpretation string         `json:"interpretation"`
}

type forecastResponse struct {
	Text       string   `json:"text"`
	CosmicVibe string   `json:"cosmic_vibe,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

type sectionResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type compatibilityResponse struct {
	Score       int               `json:"score"`
	Level       string            `json:"level"`
	PartnerName string            `json:"partner_name"`
	Summary     string            `json:"summary"`
	Sections    []sectionResponse `json:"sections,omitempty"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`

	Text          string                 `json:"text,omitempty"`
	Action        *actionResponse        `json:"action,omitempty"`
	CardReading   *cardReadingResponse   `json:"card_reading,omitempty"`
	Forecast      *forecastResponse      `json:"forecast,omitempty"`
	Compatibility *compatibilityResponse `json:"compatibility,omitempty"`
}

type readingRecordResponse struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	PersonaID string         `json:"persona_id"`
	Kind      string         `json:"kind"`
	Context   string         `json:"context"`
	Payload   map[string]any `json:"payload"`
	ImageRef  string         `json:"image_ref,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type readingsResponse struct {
	UserID   string                  `json:"user_id"`
	Readings []readingRecordResponse `json:"readings"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toPersonaResponse(p domain.Persona) personaResponse {
	return personaResponse{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Role:        p.Role,
		Feature:     string(p.Feature),
		Theme:       themeResponse{Accent: p.Theme.Accent, Icon: p.Theme.Icon},
	}
}

func toSessionResponse(ctrl *conversation.Controller) sessionResponse {
	msgs := ctrl.Messages()
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return sessionResponse{
		ID:           string(ctrl.SessionID()),
		UserID:       string(ctrl.UserID()),
		PersonaID:    string(ctrl.Persona().ID),
		InFlight:     ctrl.InFlight(),
		SubFlowState: string(ctrl.SubFlowState()),
		Messages:     out,
	}
}

func toMessageResponse(m domain.Message) messageResponse {
	resp := messageResponse{
		ID:        string(m.ID),
		Kind:      string(m.Kind),
		IsUser:    m.IsUser,
		CreatedAt: m.CreatedAt,
	}

	switch m.Kind {
	case domain.KindText:
		resp.Text = m.Text.Body
	case domain.KindAction:
		opts := make([]actionOptionResponse, 0, len(m.Action.Options))
		for _, o := range m.Action.Options {
			opts = append(opts, actionOptionResponse{Label: o.Label, ActionID: string(o.ActionID)})
		}
		resp.Action = &actionResponse{Body: m.Action.Body, Options: opts}
	case domain.KindCardReading:
		cards := make([]cardResponse, 0, len(m.CardReading.Cards))
		for _, c := range m.CardReading.Cards {
			cards = append(cards, cardResponse{
				Name:        c.Name,
				Position:    c.Position,
				IsUpright:   c.IsUpright,
				Orientation: c.Orientation(),
			})
		}
		resp.CardReading = &cardReadingResponse{
			Question:       m.CardReading.Question,
			Spread:         string(m.CardReading.Spread),
			Cards:          cards,
			Interpretation: m.CardReading.Interpretation,
		}
	case domain.KindForecast:
		resp.Forecast = &forecastResponse{
			Text:       m.Forecast.Text,
			CosmicVibe: m.Forecast.CosmicVibe,
			FocusAreas: m.Forecast.FocusAreas,
		}
	case domain.KindCompatibility:
		sections := make([]sectionResponse, 0, len(m.Compatibility.Sections))
		for _, s := range m.Compatibility.Sections {
			sections = append(sections, sectionResponse{Title: s.Title, Body: s.Body})
		}
		resp.Compatibility = &compatibilityResponse{
			Score:       m.Compatibility.Score,
			Level:       m.Compatibility.Level,
			PartnerName: m.Compatibility.PartnerName,
			Summary:     m.Compatibility.Summary,
			Sections:    sections,
		}
	}
	return resp
}

func toReadingsResponse(userID domain.UserID, recs []*domain.ReadingRecord) readingsResponse {
	out := make([]readingRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, readingRecordResponse{
			ID:        string(r.ID),
			SessionID: string(r.SessionID),
			PersonaID: string(r.PersonaID),
			Kind:      string(r.Kind),
			Context:   r.Context,
			Payload:   r.Payload,
			ImageRef:  r.ImageRef,
			CreatedAt: r.CreatedAt,
		})
	}
	return readingsResponse{UserID: string(userID), Readings: out}
}

package conversation

import (
	"context"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// persist hands a completed reading to the reading store. Failures are
// logged; they never reach the conversation.
func (c *Controller) persist(ctx context.Context, m domain.Message, question string) {
	if c.readings == nil {
		return
	}
	rec := ToRecord(m)
	if rec == nil {
		return
	}
	rec.ID = domain.ReadingID(c.newID())
	rec.SessionID = c.sessionID
	rec.UserID = c.userID
	rec.PersonaID = c.persona.ID
	rec.Context = question

	if err := c.readings.AppendReading(ctx, rec); err != nil {
		c.logger(ctx).Error("failed to persist reading", "kind", rec.Kind, "error", err)
	}
}

// ToRecord normalizes a structured message for persistence. Text and action
// messages have no record.
func ToRecord(m domain.Message) *domain.ReadingRecord {
	var payload map[string]any

	switch m.Kind {
	case domain.KindCardReading:
		cards := make([]map[string]any, 0, len(m.CardReading.Cards))
		for _, card := range m.CardReading.Cards {
			cards = append(cards, map[string]any{
				"name":       card.Name,
				"is_upright": card.IsUpright,
				"position":   card.Position,
			})
		}
		payload = map[string]any{
			"spread":         string(m.CardReading.Spread),
			"cards":          cards,
			"interpretation": m.CardReading.Interpretation,
		}
	case domain.KindForecast:
		payload = map[string]any{
			"forecast_text": m.Forecast.Text,
			"cosmic_vibe":   m.Forecast.CosmicVibe,
			"focus_areas":   m.Forecast.FocusAreas,
		}
	case domain.KindCompatibility:
		sections := make([]map[string]any, 0, len(m.Compatibility.Sections))
		for _, s := range m.Compatibility.Sections {
			sections = append(sections, map[string]any{"title": s.Title, "body": s.Body})
		}
		payload = map[string]any{
			"score":        m.Compatibility.Score,
			"level":        m.Compatibility.Level,
			"partner_name": m.Compatibility.PartnerName,
			"summary":      m.Compatibility.Summary,
			"sections":     sections,
		}
	case domain.KindText, domain.KindAction:
		return nil
	default:
		return nil
	}

	return &domain.ReadingRecord{
		Kind:      m.Kind,
		Payload:   payload,
		CreatedAt: m.CreatedAt,
	}
}

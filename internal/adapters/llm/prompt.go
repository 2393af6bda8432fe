package llm

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

const defaultReadingQuestion = "What does the universe want me to know today?"

const readingGuidelines = `
Interpret this card specifically for their question.
- If Upright: focus on the card's light aspects, opportunities and positive energies.
- If Reversed: focus on blocked energy, internal challenges or shadow aspects.

Guidelines:
- Keep your response to 2-3 sentences.
- Be mystical but directly relevant to their question.
- Stay completely in character.
- Do not explain what the card generally means; interpret it for them.
- Address them directly in your own voice.
`

const chatGuidelines = `
Stay in character at all times. Answer in the same language as the seeker.
Keep replies short: a few sentences, never a lecture.
You are not a doctor, lawyer or financial advisor. If the seeker mentions
self-harm or danger, gently point them to local emergency services.
`

// Prompt is a system instruction plus the user-role content of a request.
type Prompt struct {
	System string
	User   string
}

// SystemPrompt is the persona's instruction for free chat.
func SystemPrompt(p domain.Persona) string {
	base := strings.TrimSpace(p.SystemPrompt)
	if base == "" {
		base = fmt.Sprintf("You are %s, %s.", p.DisplayName, strings.ToLower(p.Role))
	}
	return base + "\n" + chatGuidelines
}

// ReadingPrompt builds the single-card interpretation request.
func ReadingPrompt(p domain.Persona, req domain.ReadingRequest) Prompt {
	question := strings.TrimSpace(req.Question)
	readingType := "Personal Reading"
	if question == "" {
		question = defaultReadingQuestion
		readingType = "General Reading"
	}

	orientation := "Upright"
	if !req.IsUpright {
		orientation = "Reversed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The seeker asks: %q\n\n", question)
	fmt.Fprintf(&b, "Card drawn: %s (%s)\n", req.PrimaryCard, orientation)
	if req.SpreadType != "" {
		fmt.Fprintf(&b, "Spread: %s\n", req.SpreadType)
	}
	fmt.Fprintf(&b, "Reading Type: %s\n", readingType)
	b.WriteString(readingGuidelines)

	return Prompt{
		System: strings.TrimSpace(p.SystemPrompt),
		User:   b.String(),
	}
}

package domain

// FeatureCategory is the primary capability a persona offers.
type FeatureCategory string

const (
	FeatureCardReading     FeatureCategory = "card_reading"
	FeatureForecast        FeatureCategory = "forecast"
	FeatureCompatibility   FeatureCategory = "compatibility"
	FeatureGeneralGuidance FeatureCategory = "general_guidance"
)

func (f FeatureCategory) Valid() bool {
	switch f {
	case FeatureCardReading, FeatureForecast, FeatureCompatibility, FeatureGeneralGuidance:
		return true
	}
	return false
}

type Theme struct {
	Accent string `yaml:"accent"`
	Icon   string `yaml:"icon"`
}

// Persona is a named conversational identity. Loaded once, never mutated.
type Persona struct {
	ID           PersonaID       `yaml:"id"`
	Feature      FeatureCategory `yaml:"feature"`
	DisplayName  string          `yaml:"display_name"`
	Role         string          `yaml:"role"`
	Theme        Theme           `yaml:"theme"`
	Welcome      string          `yaml:"welcome"`
	SystemPrompt string          `yaml:"system_prompt"`

	// FallbackChat lines are used whenever a gateway call fails.
	FallbackChat []string `yaml:"fallback_chat"`
	// FallbackReading may contain {card} and {orientation} placeholders.
	FallbackReading string `yaml:"fallback_reading"`
}

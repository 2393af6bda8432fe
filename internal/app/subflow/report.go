package subflow

import "github.com/PabloGalante/farum-oracle/internal/domain"

// Band is a score range with fixed copy, used when the gateway sends no narrative.
type Band struct {
	Min     int
	Level   string
	Summary string
}

// Bands are ordered from the highest threshold down.
var Bands = []Band{
	{Min: 80, Level: "Excellent", Summary: "A deeply harmonious connection blessed by the stars."},
	{Min: 60, Level: "Good", Summary: "A promising bond with beautiful potential for growth."},
	{Min: 40, Level: "Moderate", Summary: "A balanced connection that requires mutual understanding."},
	{Min: 0, Level: "Challenging", Summary: "A challenging but transformative connection that asks for real inner work."},
}

func BandFor(score int) Band {
	for _, b := range Bands {
		if score >= b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// Summary is the deterministic fallback text for a score.
func Summary(score int) string {
	return BandFor(score).Summary
}

// BuildReport turns a gateway result into the Compatibility payload,
// filling level and summary from the score bands when they are missing.
func BuildReport(partnerName string, res domain.CompatibilityResult) domain.Compatibility {
	score := min(max(res.Score, 0), 100)
	band := BandFor(score)

	level := res.Level
	if level == "" {
		level = band.Level
	}
	summary := res.NarrativeSummary
	if summary == "" {
		summary = band.Summary
	}

	return domain.Compatibility{
		Score:       score,
		Level:       level,
		PartnerName: partnerName,
		Summary:     summary,
		Sections:    res.Sections,
	}
}

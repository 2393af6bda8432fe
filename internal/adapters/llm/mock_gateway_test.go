package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-oracle/internal/adapters/llm"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

func TestMockGateway_CompatibilityIsStable(t *testing.T) {
	g := llm.NewMockGateway()
	req := domain.CompatibilityRequest{
		User:    domain.BirthData{Date: domain.BirthDate{Year: 1990, Month: 1, Day: 1}},
		Partner: domain.BirthData{Date: domain.BirthDate{Year: 1992, Month: 3, Day: 4}},
	}

	a, err := g.CalculateCompatibility(context.Background(), req)
	require.NoError(t, err)
	b, err := g.CalculateCompatibility(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Score, b.Score)
	assert.GreaterOrEqual(t, a.Score, 40)
	assert.LessOrEqual(t, a.Score, 100)
}

func TestMockGateway_ReadingMentionsCard(t *testing.T) {
	out, err := llm.NewMockGateway().GenerateReading(context.Background(), domain.ReadingRequest{
		PrimaryCard: "The Moon",
		IsUpright:   false,
		Question:    "What now?",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Interpretation, "The Moon appears reversed")
}

package cards_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-oracle/internal/app/cards"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// scriptedRNG returns values from pre-set sequences.
type scriptedRNG struct {
	ints   []int
	floats []float64
	ii, fi int
}

func (r *scriptedRNG) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)] % n
	r.ii++
	return v
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func TestDraw_ThreeCardSpread(t *testing.T) {
	rng := &scriptedRNG{floats: []float64{0.1, 0.9, 0.69}}
	svc := cards.NewService(rng)

	drawn, err := svc.Draw(3)
	require.NoError(t, err)
	require.Len(t, drawn, 3)

	assert.Equal(t, "Past", drawn[0].Position)
	assert.Equal(t, "Present", drawn[1].Position)
	assert.Equal(t, "Future", drawn[2].Position)

	assert.True(t, drawn[0].IsUpright)
	assert.False(t, drawn[1].IsUpright)
	assert.True(t, drawn[2].IsUpright)
}

func TestDraw_GenericLabels(t *testing.T) {
	svc := cards.NewService(&scriptedRNG{})

	drawn, err := svc.Draw(5)
	require.NoError(t, err)
	for i, c := range drawn {
		assert.Equal(t, "Card "+string(rune('1'+i)), c.Position)
	}
	assert.Equal(t, domain.SpreadGeneric, cards.SpreadFor(5))
	assert.Equal(t, domain.SpreadThreeCard, cards.SpreadFor(3))
}

func TestDraw_UniqueForEveryCount(t *testing.T) {
	svc := cards.NewService(rand.New(rand.NewPCG(1, 2)))

	for k := 1; k <= len(domain.MajorArcana); k++ {
		for range 50 {
			drawn, err := svc.Draw(k)
			require.NoError(t, err)
			require.Len(t, drawn, k)

			seen := make(map[string]bool, k)
			for _, c := range drawn {
				require.False(t, seen[c.Name], "duplicate card %q in draw of %d", c.Name, k)
				seen[c.Name] = true
			}
		}
	}
}

func TestDraw_DoesNotMutateDeck(t *testing.T) {
	before := domain.MajorArcana
	svc := cards.NewService(rand.New(rand.NewPCG(7, 7)))

	_, err := svc.Draw(22)
	require.NoError(t, err)
	assert.Equal(t, before, domain.MajorArcana)
}

func TestDraw_UprightRatio(t *testing.T) {
	svc := cards.NewService(rand.New(rand.NewPCG(42, 1024)))

	const draws = 20000
	upright := 0
	for range draws {
		drawn, err := svc.Draw(1)
		require.NoError(t, err)
		if drawn[0].IsUpright {
			upright++
		}
	}
	ratio := float64(upright) / draws
	assert.InDelta(t, cards.UprightProbability, ratio, 0.02)
}

func TestDraw_InvalidCount(t *testing.T) {
	svc := cards.NewService(&scriptedRNG{})
	for _, n := range []int{0, -1, 23} {
		_, err := svc.Draw(n)
		assert.ErrorIs(t, err, domain.ErrInvalidCardCount, "n=%d", n)
	}
}

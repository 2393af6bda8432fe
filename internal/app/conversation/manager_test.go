package conversation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-oracle/internal/adapters/llm"
	"github.com/PabloGalante/farum-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-oracle/internal/app/conversation"
	"github.com/PabloGalante/farum-oracle/internal/app/persona"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

func newManager(t *testing.T) (*conversation.Manager, *memory.ProfileStore, *memory.ReadingStore) {
	t.Helper()

	reg, err := persona.NewDefaultRegistry()
	require.NoError(t, err)

	profiles := memory.NewProfileStore()
	readings := memory.NewReadingStore()
	m := conversation.NewManager(reg, conversation.Deps{
		Gateway:  llm.NewMockGateway(),
		Profiles: profiles,
		Readings: readings,
	}, conversation.Options{ActionDelay: 0})
	t.Cleanup(m.CloseAll)
	return m, profiles, readings
}

func TestManager_OpenGetClose(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	ctrl, err := m.Open(ctx, conversation.OpenInput{UserID: "u1", PersonaID: "nova"})
	require.NoError(t, err)
	assert.NotEmpty(t, ctrl.SessionID())
	assert.Equal(t, domain.UserID("u1"), ctrl.UserID())
	assert.Len(t, ctrl.Messages(), 2)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(ctrl.SessionID())
	require.NoError(t, err)
	assert.Same(t, ctrl, got)

	require.NoError(t, m.Close(ctrl.SessionID()))
	_, err = m.Get(ctrl.SessionID())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(ctrl.SessionID()), domain.ErrSessionNotFound)
}

func TestManager_UnknownPersona(t *testing.T) {
	m, _, _ := newManager(t)

	_, err := m.Open(context.Background(), conversation.OpenInput{UserID: "u1", PersonaID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrPersonaNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m, profiles, readings := newManager(t)
	ctx := context.Background()
	require.NoError(t, profiles.SaveBirthData(ctx, "u1", domain.BirthData{
		Date: domain.BirthDate{Year: 1990, Month: 1, Day: 1},
	}))

	luna, err := m.Open(ctx, conversation.OpenInput{UserID: "u1", PersonaID: "madame_luna"})
	require.NoError(t, err)
	shadow, err := m.Open(ctx, conversation.OpenInput{UserID: "u1", PersonaID: "shadow"})
	require.NoError(t, err)
	assert.NotEqual(t, luna.SessionID(), shadow.SessionID())

	require.NoError(t, luna.TriggerAction(ctx, conversation.ActionDrawCards))
	require.NoError(t, shadow.TriggerAction(ctx, conversation.ActionStartCompatibility))
	require.NoError(t, shadow.SubmitUserText(ctx, "Sam"))
	require.NoError(t, shadow.SubmitUserText(ctx, "1991-02-03"))

	assert.Len(t, luna.Messages(), 5)
	assert.Equal(t, domain.SubFlowIdle, luna.SubFlowState())

	report := shadow.Messages()[len(shadow.Messages())-1]
	require.Equal(t, domain.KindCompatibility, report.Kind)
	assert.GreaterOrEqual(t, report.Compatibility.Score, 40)
	assert.LessOrEqual(t, report.Compatibility.Score, 100)

	recs, err := readings.ListReadingsByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, domain.KindCompatibility, recs[0].Kind)
	assert.Equal(t, domain.KindCardReading, recs[1].Kind)
}

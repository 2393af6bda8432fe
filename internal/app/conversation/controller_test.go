package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PabloGalante/farum-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-oracle/internal/app/conversation"
	"github.com/PabloGalante/farum-oracle/internal/app/persona"
	"github.com/PabloGalante/farum-oracle/internal/app/subflow"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, whose stats worker starts in init.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

var errUpstream = errors.New("upstream unavailable")

// fakeGateway records calls and can block them until released.
type fakeGateway struct {
	mu          sync.Mutex
	calls       map[string]int
	chatReqs    []domain.ChatTurnRequest
	readingReqs []domain.ReadingRequest

	chatReply string
	reading   domain.ReadingResult
	forecast  domain.ForecastResult
	compat    domain.CompatibilityResult
	err       error

	started chan struct{}
	release chan struct{}
}

func (g *fakeGateway) enter(op string) error {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[op]++
	started, release, err := g.started, g.release, g.err
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return err
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *fakeGateway) SendChatTurn(_ context.Context, req domain.ChatTurnRequest) (string, error) {
	g.mu.Lock()
	g.chatReqs = append(g.chatReqs, req)
	g.mu.Unlock()
	if err := g.enter("chat"); err != nil {
		return "", err
	}
	if g.chatReply != "" {
		return g.chatReply, nil
	}
	return "reply to " + req.Message, nil
}

func (g *fakeGateway) GenerateReading(_ context.Context, req domain.ReadingRequest) (domain.ReadingResult, error) {
	g.mu.Lock()
	g.readingReqs = append(g.readingReqs, req)
	g.mu.Unlock()
	if err := g.enter("reading"); err != nil {
		return domain.ReadingResult{}, err
	}
	return g.reading, nil
}

func (g *fakeGateway) GetForecast(_ context.Context, _ domain.ForecastRequest) (domain.ForecastResult, error) {
	if err := g.enter("forecast"); err != nil {
		return domain.ForecastResult{}, err
	}
	return g.forecast, nil
}

func (g *fakeGateway) CalculateCompatibility(_ context.Context, _ domain.CompatibilityRequest) (domain.CompatibilityResult, error) {
	if err := g.enter("compat"); err != nil {
		return domain.CompatibilityResult{}, err
	}
	return g.compat, nil
}

type fixture struct {
	ctrl     *conversation.Controller
	gw       *fakeGateway
	profiles *memory.ProfileStore
	readings *memory.ReadingStore
	persona  domain.Persona
}

func newFixture(t *testing.T, personaID domain.PersonaID, gw *fakeGateway, opts conversation.Options) *fixture {
	t.Helper()

	reg, err := persona.NewDefaultRegistry()
	require.NoError(t, err)
	p, err := reg.Get(personaID)
	require.NoError(t, err)

	var seq atomic.Int64
	f := &fixture{
		gw:       gw,
		profiles: memory.NewProfileStore(),
		readings: memory.NewReadingStore(),
		persona:  p,
	}
	f.ctrl = conversation.NewController("s1", "u1", p, conversation.Deps{
		Gateway:  gw,
		Profiles: f.profiles,
		Readings: f.readings,
		RNG:      rand.New(rand.NewPCG(1, 2)),
		Now:      func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID:    func() string { return fmt.Sprintf("id-%d", seq.Add(1)) },
	}, opts)
	f.ctrl.Start()
	t.Cleanup(f.ctrl.Close)
	return f
}

func (f *fixture) saveBirthData(t *testing.T) {
	t.Helper()
	require.NoError(t, f.profiles.SaveBirthData(context.Background(), "u1", domain.BirthData{
		Date: domain.BirthDate{Year: 1990, Month: 6, Day: 15},
	}))
}

func immediate() conversation.Options {
	return conversation.Options{ActionDelay: 0}
}

func last(msgs []domain.Message) domain.Message {
	return msgs[len(msgs)-1]
}

func TestStart_SeedsWelcomeAndPrimaryAction(t *testing.T) {
	cases := map[domain.PersonaID]domain.ActionID{
		"madame_luna": conversation.ActionDrawCards,
		"nova":        conversation.ActionDailyForecast,
		"shadow":      conversation.ActionStartCompatibility,
		"elder_weiss": conversation.ActionAskQuestion,
	}
	for id, action := range cases {
		t.Run(string(id), func(t *testing.T) {
			f := newFixture(t, id, &fakeGateway{}, immediate())

			msgs := f.ctrl.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, domain.KindText, msgs[0].Kind)
			assert.False(t, msgs[0].IsUser)
			assert.Equal(t, f.persona.Welcome, msgs[0].Text.Body)

			require.Equal(t, domain.KindAction, msgs[1].Kind)
			assert.Equal(t, action, msgs[1].Action.Options[0].ActionID)

			f.ctrl.Start()
			assert.Len(t, f.ctrl.Messages(), 2, "second Start must not reseed")
		})
	}
}

func TestStart_DelaysPrimaryAction(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{}, conversation.Options{ActionDelay: 20 * time.Millisecond})

	assert.Len(t, f.ctrl.Messages(), 1)
	require.Eventually(t, func() bool { return len(f.ctrl.Messages()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.KindAction, last(f.ctrl.Messages()).Kind)
}

func TestClose_CancelsDelayedAction(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{}, conversation.Options{ActionDelay: 30 * time.Millisecond})
	f.ctrl.Close()

	time.Sleep(80 * time.Millisecond)
	assert.Len(t, f.ctrl.Messages(), 1)
}

func TestSubmitUserText_IgnoresBlankInput(t *testing.T) {
	f := newFixture(t, "elder_weiss", &fakeGateway{}, immediate())

	for _, in := range []string{"", "   ", "\n\t"} {
		err := f.ctrl.SubmitUserText(context.Background(), in)
		assert.ErrorIs(t, err, conversation.ErrEmptyInput)
	}
	assert.Len(t, f.ctrl.Messages(), 2)
	assert.Equal(t, 0, f.gw.count("chat"))
}

func TestSubmitUserText_ChatTurn(t *testing.T) {
	f := newFixture(t, "elder_weiss", &fakeGateway{}, immediate())

	require.NoError(t, f.ctrl.SubmitUserText(context.Background(), "  Should I change jobs?  "))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, 4)
	assert.True(t, msgs[2].IsUser)
	assert.Equal(t, "Should I change jobs?", msgs[2].Text.Body)
	assert.False(t, msgs[3].IsUser)
	assert.Equal(t, "reply to Should I change jobs?", msgs[3].Text.Body)
	assert.False(t, f.ctrl.InFlight())

	// Only the welcome text precedes the first turn; the action message is not context.
	req := f.gw.chatReqs[0]
	assert.Equal(t, domain.PersonaID("elder_weiss"), req.PersonaID)
	require.Len(t, req.History, 1)
	assert.Equal(t, domain.RoleAssistant, req.History[0].Role)
	assert.Equal(t, f.persona.Welcome, req.History[0].Content)
}

func TestSubmitUserText_HistoryWindow(t *testing.T) {
	f := newFixture(t, "elder_weiss", &fakeGateway{}, immediate())
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		require.NoError(t, f.ctrl.SubmitUserText(ctx, fmt.Sprintf("msg %d", i)))
	}

	req := f.gw.chatReqs[6]
	require.Len(t, req.History, 10)
	assert.Equal(t, domain.RoleUser, req.History[0].Role)
	assert.Equal(t, "msg 2", req.History[0].Content)
	assert.Equal(t, domain.RoleAssistant, req.History[9].Role)
	assert.Equal(t, "reply to msg 6", req.History[9].Content)
}

func TestSubmitUserText_FallbackOnGatewayError(t *testing.T) {
	f := newFixture(t, "shadow", &fakeGateway{err: errUpstream}, immediate())

	require.NoError(t, f.ctrl.SubmitUserText(context.Background(), "hello?"))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, 4)
	reply := msgs[3]
	assert.False(t, reply.IsUser)
	assert.Contains(t, f.persona.FallbackChat, reply.Text.Body)
	assert.False(t, f.ctrl.InFlight())
}

func TestSubmitUserText_CardReaderInvitesDraw(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{}, immediate())
	ctx := context.Background()

	// welcome + action + user + reply = 4 messages, a multiple of four.
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "hi"))
	msgs := f.ctrl.Messages()
	require.Len(t, msgs, 5)
	require.Equal(t, domain.KindAction, msgs[4].Kind)
	assert.Equal(t, conversation.ActionDrawCards, msgs[4].Action.Options[0].ActionID)

	require.NoError(t, f.ctrl.SubmitUserText(ctx, "again"))
	assert.Len(t, f.ctrl.Messages(), 7)

	// Four more messages since the last invite: another one.
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "and again"))
	msgs = f.ctrl.Messages()
	require.Len(t, msgs, 10)
	assert.Equal(t, domain.KindAction, last(msgs).Kind)
}

func TestSubmitUserText_CardReaderInviteRepeats(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{}, immediate())
	ctx := context.Background()

	invites := 0
	for i := 0; i < 20; i++ {
		before := len(f.ctrl.Messages())
		require.NoError(t, f.ctrl.SubmitUserText(ctx, fmt.Sprintf("turn %d", i)))
		msgs := f.ctrl.Messages()
		if len(msgs) == before+3 && last(msgs).Kind == domain.KindAction {
			invites++
		}
	}
	assert.Equal(t, 10, invites)
}

func TestSubmitUserText_NoInviteForOtherPersonas(t *testing.T) {
	f := newFixture(t, "nova", &fakeGateway{}, immediate())

	require.NoError(t, f.ctrl.SubmitUserText(context.Background(), "hi"))
	assert.Len(t, f.ctrl.Messages(), 4)
}

func TestDrawCards_Success(t *testing.T) {
	gw := &fakeGateway{reading: domain.ReadingResult{Interpretation: "Change is coming."}}
	f := newFixture(t, "madame_luna", gw, immediate())
	ctx := context.Background()

	gw.chatReply = "Let's ask the cards."
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "Will I find love?"))
	before := len(f.ctrl.Messages())

	require.NoError(t, f.ctrl.TriggerAction(ctx, conversation.ActionDrawCards))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+3)

	echo, reading, follow := msgs[before], msgs[before+1], msgs[before+2]
	assert.True(t, echo.IsUser)
	assert.Equal(t, conversation.DrawEcho, echo.Text.Body)

	require.Equal(t, domain.KindCardReading, reading.Kind)
	assert.Equal(t, "Change is coming.", reading.CardReading.Interpretation)
	assert.Equal(t, "Will I find love?", reading.CardReading.Question)
	assert.Equal(t, domain.SpreadThreeCard, reading.CardReading.Spread)
	require.Len(t, reading.CardReading.Cards, 3)
	seen := map[string]bool{}
	for i, c := range reading.CardReading.Cards {
		assert.False(t, seen[c.Name], "duplicate card %s", c.Name)
		seen[c.Name] = true
		assert.Equal(t, []string{"Past", "Present", "Future"}[i], c.Position)
	}

	require.Equal(t, domain.KindAction, follow.Kind)
	assert.Equal(t, conversation.ActionDrawAgain, follow.Action.Options[0].ActionID)
	assert.Equal(t, conversation.ActionAskQuestion, follow.Action.Options[1].ActionID)

	// The first card is the one sent for interpretation.
	req := gw.readingReqs[0]
	assert.Equal(t, reading.CardReading.Cards[0].Name, req.PrimaryCard)
	assert.Equal(t, reading.CardReading.Cards[0].IsUpright, req.IsUpright)

	assert.False(t, f.ctrl.InFlight())

	recs, err := f.readings.ListReadingsByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.KindCardReading, recs[0].Kind)
	assert.Equal(t, "Will I find love?", recs[0].Context)
	assert.Equal(t, domain.SessionID("s1"), recs[0].SessionID)
	assert.Equal(t, "Change is coming.", recs[0].Payload["interpretation"])
}

func TestDrawCards_ShortLastTextUsesDefaultQuestion(t *testing.T) {
	gw := &fakeGateway{reading: domain.ReadingResult{Interpretation: "Rest."}}
	f := newFixture(t, "madame_luna", gw, immediate())
	ctx := context.Background()

	require.NoError(t, f.ctrl.SubmitUserText(ctx, "hi"))
	require.NoError(t, f.ctrl.DrawCards(ctx))

	require.Len(t, gw.readingReqs, 1)
	assert.Equal(t, "What do the cards reveal for me right now?", gw.readingReqs[0].Question)
}

func TestDrawCards_FailureAppendsSingleFallback(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{err: errUpstream}, immediate())
	ctx := context.Background()
	before := len(f.ctrl.Messages())

	require.NoError(t, f.ctrl.TriggerAction(ctx, conversation.ActionDrawCards))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+1)
	fallback := last(msgs)
	assert.Equal(t, domain.KindText, fallback.Kind)
	assert.False(t, fallback.IsUser)
	assert.NotEmpty(t, fallback.Text.Body)
	assert.False(t, f.ctrl.InFlight())

	recs, err := f.readings.ListReadingsByUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestTriggerAction_ConcurrentDuplicateIgnored(t *testing.T) {
	gw := &fakeGateway{
		reading: domain.ReadingResult{Interpretation: "ok"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newFixture(t, "madame_luna", gw, immediate())
	ctx := context.Background()
	before := len(f.ctrl.Messages())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = f.ctrl.TriggerAction(ctx, conversation.ActionDrawCards)
	}()

	<-gw.started
	require.True(t, f.ctrl.InFlight())

	assert.ErrorIs(t, f.ctrl.TriggerAction(ctx, conversation.ActionDrawCards), conversation.ErrBusy)
	assert.ErrorIs(t, f.ctrl.TriggerAction(ctx, conversation.ActionDailyForecast), conversation.ErrBusy)
	assert.Len(t, f.ctrl.Messages(), before)

	// Text typed meanwhile is kept, but no second call goes out.
	assert.ErrorIs(t, f.ctrl.SubmitUserText(ctx, "still there?"), conversation.ErrBusy)
	assert.Len(t, f.ctrl.Messages(), before+1)
	assert.Equal(t, 0, gw.count("chat"))

	close(gw.release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Len(t, f.ctrl.Messages(), before+4)
	assert.Equal(t, 1, gw.count("reading"))
	assert.False(t, f.ctrl.InFlight())
}

func TestTriggerAction_Unknown(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{}, immediate())

	err := f.ctrl.TriggerAction(context.Background(), "summon_dragon")
	assert.ErrorIs(t, err, conversation.ErrUnknownAction)
	assert.Len(t, f.ctrl.Messages(), 2)
}

func TestTriggerAction_AskQuestion(t *testing.T) {
	f := newFixture(t, "elder_weiss", &fakeGateway{}, immediate())

	require.NoError(t, f.ctrl.TriggerAction(context.Background(), conversation.ActionAskQuestion))
	msg := last(f.ctrl.Messages())
	assert.Contains(t, msg.Text.Body, "Elder")
	assert.Equal(t, 0, f.gw.count("chat"))
}

func TestFetchForecast_RequiresBirthData(t *testing.T) {
	f := newFixture(t, "nova", &fakeGateway{}, immediate())
	before := len(f.ctrl.Messages())

	require.NoError(t, f.ctrl.TriggerAction(context.Background(), conversation.ActionDailyForecast))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+1)
	assert.Contains(t, last(msgs).Text.Body, "birth date")
	assert.Equal(t, 0, f.gw.count("forecast"))
	assert.False(t, f.ctrl.InFlight())
}

func TestFetchForecast_Success(t *testing.T) {
	gw := &fakeGateway{forecast: domain.ForecastResult{
		Text:       "A day for bold moves.",
		CosmicVibe: "Electric",
		FocusAreas: []string{"career"},
	}}
	f := newFixture(t, "nova", gw, immediate())
	f.saveBirthData(t)
	before := len(f.ctrl.Messages())

	require.NoError(t, f.ctrl.FetchForecast(context.Background()))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+2)
	forecast := msgs[before]
	require.Equal(t, domain.KindForecast, forecast.Kind)
	assert.Equal(t, "A day for bold moves.", forecast.Forecast.Text)
	assert.Equal(t, "Electric", forecast.Forecast.CosmicVibe)
	assert.Equal(t, []string{"career"}, forecast.Forecast.FocusAreas)
	assert.Equal(t, domain.KindAction, msgs[before+1].Kind)

	recs, err := f.readings.ListReadingsByUser(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.KindForecast, recs[0].Kind)
}

func TestFetchForecast_Failure(t *testing.T) {
	f := newFixture(t, "nova", &fakeGateway{err: errUpstream}, immediate())
	f.saveBirthData(t)
	before := len(f.ctrl.Messages())

	require.NoError(t, f.ctrl.FetchForecast(context.Background()))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+1)
	assert.Contains(t, f.persona.FallbackChat, last(msgs).Text.Body)
	assert.False(t, f.ctrl.InFlight())
}

func TestCompatibilityFlow(t *testing.T) {
	gw := &fakeGateway{compat: domain.CompatibilityResult{Score: 85}}
	f := newFixture(t, "shadow", gw, immediate())
	f.saveBirthData(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.TriggerAction(ctx, conversation.ActionStartCompatibility))
	assert.Equal(t, subflow.NamePrompt, last(f.ctrl.Messages()).Text.Body)
	assert.Equal(t, domain.SubFlowAwaitingPartnerName, f.ctrl.SubFlowState())

	require.NoError(t, f.ctrl.SubmitUserText(ctx, "Alex"))
	assert.Equal(t, domain.SubFlowAwaitingPartnerBirthDate, f.ctrl.SubFlowState())
	assert.Contains(t, last(f.ctrl.Messages()).Text.Body, "YYYY-MM-DD")

	before := len(f.ctrl.Messages())
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "not a date"))
	assert.Len(t, f.ctrl.Messages(), before+2)
	assert.Equal(t, domain.SubFlowAwaitingPartnerBirthDate, f.ctrl.SubFlowState())
	assert.Equal(t, 0, gw.count("compat"))

	require.NoError(t, f.ctrl.SubmitUserText(ctx, "1995/6/15"))
	assert.Equal(t, domain.SubFlowIdle, f.ctrl.SubFlowState())

	report := last(f.ctrl.Messages())
	require.Equal(t, domain.KindCompatibility, report.Kind)
	assert.Equal(t, 85, report.Compatibility.Score)
	assert.Equal(t, "Alex", report.Compatibility.PartnerName)
	assert.Equal(t, subflow.Bands[0].Summary, report.Compatibility.Summary)
	assert.Equal(t, 1, gw.count("compat"))
	assert.Equal(t, 0, gw.count("chat"), "sub-flow input must not reach free chat")

	recs, err := f.readings.ListReadingsByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Compatibility with Alex", recs[0].Context)
}

func TestCompatibilityFlow_MissingOwnBirthDataKeepsPartner(t *testing.T) {
	gw := &fakeGateway{compat: domain.CompatibilityResult{Score: 30}}
	f := newFixture(t, "shadow", gw, immediate())
	ctx := context.Background()

	require.NoError(t, f.ctrl.StartCompatibility(ctx))
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "Robin"))
	before := len(f.ctrl.Messages())
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "1988-12-01"))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+2)
	assert.Contains(t, last(msgs).Text.Body, "birth date")
	assert.Equal(t, 0, gw.count("compat"))
	assert.False(t, f.ctrl.InFlight())

	// Once the profile exists, starting again resumes with the stored partner.
	f.saveBirthData(t)
	require.NoError(t, f.ctrl.TriggerAction(ctx, conversation.ActionStartCompatibility))

	report := last(f.ctrl.Messages())
	require.Equal(t, domain.KindCompatibility, report.Kind)
	assert.Equal(t, "Robin", report.Compatibility.PartnerName)
	assert.Equal(t, subflow.Summary(30), report.Compatibility.Summary)
}

func TestCompatibilityFlow_FailureReturnsToDateStep(t *testing.T) {
	gw := &fakeGateway{err: errUpstream, compat: domain.CompatibilityResult{Score: 64, NarrativeSummary: "Worth it."}}
	f := newFixture(t, "shadow", gw, immediate())
	f.saveBirthData(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.StartCompatibility(ctx))
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "Jordan"))
	before := len(f.ctrl.Messages())
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "1992-03-04"))

	msgs := f.ctrl.Messages()
	require.Len(t, msgs, before+2)
	assert.Equal(t, domain.KindText, last(msgs).Kind)
	assert.Contains(t, last(msgs).Text.Body, "Jordan")
	assert.Equal(t, domain.SubFlowAwaitingPartnerBirthDate, f.ctrl.SubFlowState())
	assert.False(t, f.ctrl.InFlight())

	gw.setErr(nil)
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "1992-03-04"))

	report := last(f.ctrl.Messages())
	require.Equal(t, domain.KindCompatibility, report.Kind)
	assert.Equal(t, "Jordan", report.Compatibility.PartnerName)
	assert.Equal(t, "Worth it.", report.Compatibility.Summary)
	assert.Equal(t, domain.SubFlowIdle, f.ctrl.SubFlowState())
}

func TestMessageIDsAreUnique(t *testing.T) {
	f := newFixture(t, "madame_luna", &fakeGateway{}, immediate())
	ctx := context.Background()
	require.NoError(t, f.ctrl.SubmitUserText(ctx, "one"))
	require.NoError(t, f.ctrl.DrawCards(ctx))

	seen := map[domain.MessageID]bool{}
	for _, m := range f.ctrl.Messages() {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

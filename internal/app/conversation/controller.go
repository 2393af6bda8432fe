package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PabloGalante/farum-oracle/internal/app/cards"
	"github.com/PabloGalante/farum-oracle/internal/app/persona"
	"github.com/PabloGalante/farum-oracle/internal/app/subflow"
	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

// Controller owns one persona chat session: the append-only history, the
// single in-flight slot and the compatibility sub-flow.
//
// History is only touched under mu, and mu is never held across a gateway
// call. A user's own message is appended before the call it triggers.
type Controller struct {
	sessionID domain.SessionID
	userID    domain.UserID
	persona   domain.Persona

	gateway  domain.Gateway
	cards    *cards.Service
	profiles domain.ProfileStore
	readings domain.ReadingStore
	rng      domain.RNG
	now      func() time.Time
	newID    func() string
	opts     Options

	mu       sync.Mutex
	messages []domain.Message
	inFlight bool
	flow     *subflow.Engine
	started  bool
	closed   bool
	timer    *time.Timer

	// sinceInvite counts messages appended since the last draw invite.
	sinceInvite int
}

func NewController(
	sessionID domain.SessionID,
	userID domain.UserID,
	p domain.Persona,
	deps Deps,
	opts Options,
) *Controller {
	deps = deps.withDefaults()

	return &Controller{
		sessionID: sessionID,
		userID:    userID,
		persona:   p,
		gateway:   deps.Gateway,
		cards:     deps.Cards,
		profiles:  deps.Profiles,
		readings:  deps.Readings,
		rng:       deps.RNG,
		now:       deps.Now,
		newID:     deps.NewID,
		opts:      opts.withDefaults(),
		flow:      subflow.NewEngine(),
	}
}

func (c *Controller) SessionID() domain.SessionID { return c.sessionID }
func (c *Controller) UserID() domain.UserID       { return c.userID }
func (c *Controller) Persona() domain.Persona     { return c.persona }

// Messages returns a snapshot of the history in arrival order.
func (c *Controller) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// InFlight reports whether a gateway call is outstanding.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Controller) SubFlowState() domain.SubFlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow.State()
}

// Start seeds the welcome message and, after ActionDelay, the persona's
// primary action. Calling it twice has no effect.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return
	}
	c.started = true
	c.appendLocked(c.textMessage(false, c.persona.Welcome))

	o := primaryOffer(c.persona.Feature)
	if c.opts.ActionDelay <= 0 {
		c.appendLocked(c.actionMessage(o))
		return
	}
	c.timer = time.AfterFunc(c.opts.ActionDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.appendLocked(c.actionMessage(o))
	})
}

// Close stops pending timers. Calls completing after Close still append,
// but nothing reads a closed controller.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
}

// SubmitUserText appends the user's message and routes it either to the
// active sub-flow or to a free chat turn.
func (c *Controller) SubmitUserText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	log := c.logger(ctx)

	c.mu.Lock()
	history := c.chatHistoryLocked()
	c.appendLocked(c.textMessage(true, text))

	if c.flow.Active() {
		step := c.flow.Submit(text)
		if !step.Ready {
			if step.Invalid {
				log.Info("partner birth date rejected")
			}
			c.appendLocked(c.textMessage(false, step.Prompt))
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
		return c.calculateCompatibility(ctx)
	}

	if c.inFlight {
		c.mu.Unlock()
		log.Info("chat turn not sent, request in flight")
		return ErrBusy
	}
	c.inFlight = true
	c.mu.Unlock()
	defer c.release()

	log.Info("sending chat turn", "history_len", len(history))

	reply, err := c.gateway.SendChatTurn(ctx, domain.ChatTurnRequest{
		SessionID: c.sessionID,
		Message:   text,
		PersonaID: c.persona.ID,
		History:   history,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Warn("chat turn failed, using fallback", "error", err)
		c.appendLocked(c.textMessage(false, persona.FallbackChat(c.persona, c.rng)))
		return nil
	}
	c.appendLocked(c.textMessage(false, reply))

	if c.persona.Feature == domain.FeatureCardReading && c.sinceInvite >= c.opts.CardInviteEvery {
		c.appendLocked(c.actionMessage(cardInvite))
		c.sinceInvite = 0
	}
	return nil
}

// TriggerAction runs the operation bound to actionID. While a request is
// outstanding it is ignored and ErrBusy is returned.
func (c *Controller) TriggerAction(ctx context.Context, actionID domain.ActionID) error {
	fn, ok := actionTable[actionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}
	if c.InFlight() {
		c.logger(ctx).Info("action ignored, request in flight", "action", actionID)
		return ErrBusy
	}
	return fn(c, ctx)
}

// DrawCards draws a spread and asks the gateway to interpret its first card.
// Success appends the user echo, the reading and a follow-up action; failure
// appends a single fallback text.
func (c *Controller) DrawCards(ctx context.Context) error {
	log := c.logger(ctx)

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	drawn, err := c.cards.Draw(c.opts.CardCount)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("draw cards: %w", err)
	}
	question := c.lastQuestionLocked()
	c.inFlight = true
	c.mu.Unlock()
	defer c.release()

	primary := drawn[0]
	log.Info("drawing cards", "primary", primary.Name, "upright", primary.IsUpright)

	res, err := c.gateway.GenerateReading(ctx, domain.ReadingRequest{
		UserID:      c.userID,
		Question:    question,
		SpreadType:  cards.SpreadFor(len(drawn)),
		PrimaryCard: primary.Name,
		IsUpright:   primary.IsUpright,
		PersonaID:   c.persona.ID,
	})

	c.mu.Lock()
	if err != nil {
		c.appendLocked(c.textMessage(false, persona.FallbackReading(c.persona, primary)))
		c.mu.Unlock()
		log.Warn("reading generation failed, using fallback", "error", err)
		return nil
	}

	c.appendLocked(c.textMessage(true, DrawEcho))
	reading := domain.NewCardReadingMessage(c.nextID(), c.now(), domain.CardReading{
		Question:       question,
		Spread:         cards.SpreadFor(len(drawn)),
		Cards:          drawn,
		Interpretation: res.Interpretation,
	})
	c.appendLocked(reading)
	c.appendLocked(c.actionMessage(afterReading))
	c.mu.Unlock()

	c.persist(ctx, reading, question)
	return nil
}

// FetchForecast requires the caller's birth data; without it an explanation
// is appended and the gateway is not called.
func (c *Controller) FetchForecast(ctx context.Context) error {
	log := c.logger(ctx)

	if !c.acquire() {
		return ErrBusy
	}
	defer c.release()

	birth, ok := c.callerBirthData(ctx)
	if !ok {
		c.appendText(msgForecastNeedsBirthData)
		return nil
	}

	log.Info("fetching forecast")
	res, err := c.gateway.GetForecast(ctx, domain.ForecastRequest{
		UserID:    c.userID,
		BirthData: *birth,
		PersonaID: c.persona.ID,
	})
	if err != nil {
		log.Warn("forecast failed, using fallback", "error", err)
		c.appendFallback()
		return nil
	}

	c.mu.Lock()
	forecast := domain.NewForecastMessage(c.nextID(), c.now(), domain.Forecast{
		Text:       res.Text,
		CosmicVibe: res.CosmicVibe,
		FocusAreas: res.FocusAreas,
	})
	c.appendLocked(forecast)
	c.appendLocked(c.actionMessage(afterForecast))
	c.mu.Unlock()

	c.persist(ctx, forecast, "Daily forecast for "+c.now().Format(time.DateOnly))
	return nil
}

// StartCompatibility opens the partner sub-flow. If a previous attempt
// stopped only for lack of the caller's birth data, it is resumed instead.
func (c *Controller) StartCompatibility(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	if _, _, ready := c.flow.Partner(); ready && !c.flow.Active() {
		c.mu.Unlock()
		return c.calculateCompatibility(ctx)
	}
	c.appendLocked(c.textMessage(false, c.flow.Begin()))
	c.mu.Unlock()

	c.logger(ctx).Info("compatibility flow started")
	return nil
}

// AskQuestion invites free text. No gateway call is made.
func (c *Controller) AskQuestion() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return ErrBusy
	}
	c.appendLocked(c.textMessage(false, fmt.Sprintf("%s is listening. What would you like to ask?", c.persona.DisplayName)))
	return nil
}

func (c *Controller) calculateCompatibility(ctx context.Context) error {
	log := c.logger(ctx)

	c.mu.Lock()
	name, date, ready := c.flow.Partner()
	if !ready {
		c.mu.Unlock()
		return nil
	}
	if c.inFlight {
		c.appendLocked(c.textMessage(false, msgStillWorking+" "+c.flow.Retry()))
		c.mu.Unlock()
		return ErrBusy
	}
	c.inFlight = true
	c.mu.Unlock()
	defer c.release()

	user, ok := c.callerBirthData(ctx)
	if !ok {
		// Partner data stays captured so the check can resume later.
		c.appendText(msgCompatibilityNeedsBirthData)
		return nil
	}

	log.Info("calculating compatibility", "partner", name)
	res, err := c.gateway.CalculateCompatibility(ctx, domain.CompatibilityRequest{
		User:      *user,
		Partner:   domain.BirthData{Name: name, Date: date},
		PersonaID: c.persona.ID,
	})

	c.mu.Lock()
	if err != nil {
		retry := c.flow.Retry()
		c.appendLocked(c.textMessage(false, persona.FallbackChat(c.persona, c.rng)+" "+retry))
		c.mu.Unlock()
		log.Warn("compatibility failed, using fallback", "error", err)
		return nil
	}

	report := domain.NewCompatibilityMessage(c.nextID(), c.now(), subflow.BuildReport(name, res))
	c.flow.Complete()
	c.appendLocked(report)
	c.mu.Unlock()

	c.persist(ctx, report, "Compatibility with "+name)
	return nil
}

// callerBirthData reads the prerequisite for forecasts and compatibility.
func (c *Controller) callerBirthData(ctx context.Context) (*domain.BirthData, bool) {
	if c.profiles == nil {
		return nil, false
	}
	data, err := c.profiles.GetBirthData(ctx, c.userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			c.logger(ctx).Error("failed to load birth data", "error", err)
		}
		return nil, false
	}
	if data == nil || data.Date.IsZero() {
		return nil, false
	}
	return data, true
}

func (c *Controller) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return false
	}
	c.inFlight = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func (c *Controller) appendText(body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(c.textMessage(false, body))
}

func (c *Controller) appendFallback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(c.textMessage(false, persona.FallbackChat(c.persona, c.rng)))
}

func (c *Controller) appendLocked(m domain.Message) {
	c.messages = append(c.messages, m)
	c.sinceInvite++
}

// chatHistoryLocked returns the last HistoryWindow text messages, oldest first.
func (c *Controller) chatHistoryLocked() []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, c.opts.HistoryWindow)
	for i := len(c.messages) - 1; i >= 0 && len(turns) < c.opts.HistoryWindow; i-- {
		m := c.messages[i]
		if m.Kind != domain.KindText {
			continue
		}
		turns = append(turns, domain.ChatTurn{Role: m.Role(), Content: m.Text.Body})
	}
	slices.Reverse(turns)
	return turns
}

// lastQuestionLocked is the most recent thing the user typed, used as the
// reading question. Anything shorter than minQuestionLen reads as a greeting
// and falls back to defaultQuestion.
func (c *Controller) lastQuestionLocked() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if !m.IsUser || m.Kind != domain.KindText || m.Text.Body == DrawEcho {
			continue
		}
		if utf8.RuneCountInString(m.Text.Body) < minQuestionLen {
			return defaultQuestion
		}
		return m.Text.Body
	}
	return defaultQuestion
}

func (c *Controller) textMessage(isUser bool, body string) domain.Message {
	return domain.NewTextMessage(c.nextID(), isUser, c.now(), body)
}

func (c *Controller) actionMessage(o offer) domain.Message {
	return domain.NewActionMessage(c.nextID(), c.now(), o.body, o.options...)
}

func (c *Controller) nextID() domain.MessageID {
	return domain.MessageID(c.newID())
}

func (c *Controller) logger(ctx context.Context) *slog.Logger {
	return observability.LoggerFromContext(ctx).With(
		"session_id", c.sessionID,
		"persona_id", c.persona.ID,
	)
}

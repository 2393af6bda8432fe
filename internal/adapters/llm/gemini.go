package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

// ContentGenerator is the slice of the genai client the gateway uses.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// PersonaLookup resolves the persona whose voice a request should use.
type PersonaLookup interface {
	Get(id domain.PersonaID) (domain.Persona, error)
}

// NewVertexModels opens a Vertex AI backed genai client.
func NewVertexModels(ctx context.Context, projectID, location string) (*genai.Models, error) {
	if projectID == "" || location == "" {
		return nil, errors.New("gcp project and location must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}
	return client.Models, nil
}

// GeminiGateway generates chat turns and card readings with Gemini in the
// persona's voice. Forecasts and compatibility need ephemeris data, so
// they go to astro.
type GeminiGateway struct {
	gen       ContentGenerator
	modelName string
	personas  PersonaLookup
	astro     domain.Gateway
	timeout   time.Duration
}

func NewGeminiGateway(gen ContentGenerator, modelName string, personas PersonaLookup, astro domain.Gateway) *GeminiGateway {
	if modelName == "" {
		modelName = defaultModel
	}
	return &GeminiGateway{
		gen:       gen,
		modelName: modelName,
		personas:  personas,
		astro:     astro,
	}
}

// WithTimeout bounds each Gemini call. Zero leaves only the caller's deadline.
func (g *GeminiGateway) WithTimeout(d time.Duration) *GeminiGateway {
	g.timeout = d
	return g
}

func (g *GeminiGateway) SendChatTurn(ctx context.Context, req domain.ChatTurnRequest) (string, error) {
	p, err := g.personas.Get(req.PersonaID)
	if err != nil {
		return "", &domain.GatewayError{Op: "chat", Err: err}
	}

	text, err := g.generate(ctx, SystemPrompt(p), chatContents(req.History, req.Message), 0.85, 300)
	if err != nil {
		return "", &domain.GatewayError{Op: "chat", Err: err}
	}
	return text, nil
}

// chatContents maps the history plus the new message to Gemini turns. The
// conversation must open with a user turn and alternate roles, so leading
// model turns are dropped and consecutive turns of one role are joined.
func chatContents(history []domain.ChatTurn, message string) []*genai.Content {
	type turn struct {
		role genai.Role
		text string
	}

	turns := make([]turn, 0, len(history)+1)
	add := func(role genai.Role, text string) {
		if len(turns) == 0 && role != genai.RoleUser {
			return
		}
		if n := len(turns); n > 0 && turns[n-1].role == role {
			turns[n-1].text += "\n" + text
			return
		}
		turns = append(turns, turn{role: role, text: text})
	}

	for _, t := range history {
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		add(role, t.Content)
	}
	add(genai.RoleUser, message)

	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, genai.NewContentFromText(t.text, t.role))
	}
	return contents
}

func (g *GeminiGateway) GenerateReading(ctx context.Context, req domain.ReadingRequest) (domain.ReadingResult, error) {
	p, err := g.personas.Get(req.PersonaID)
	if err != nil {
		return domain.ReadingResult{}, &domain.GatewayError{Op: "reading", Err: err}
	}

	prompt := ReadingPrompt(p, req)
	contents := []*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)}

	text, err := g.generate(ctx, prompt.System, contents, 0.8, 200)
	if err != nil {
		return domain.ReadingResult{}, &domain.GatewayError{Op: "reading", Err: err}
	}
	return domain.ReadingResult{Interpretation: text}, nil
}

func (g *GeminiGateway) GetForecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error) {
	return g.astro.GetForecast(ctx, req)
}

func (g *GeminiGateway) CalculateCompatibility(ctx context.Context, req domain.CompatibilityRequest) (domain.CompatibilityResult, error) {
	return g.astro.CalculateCompatibility(ctx, req)
}

func (g *GeminiGateway) generate(
	ctx context.Context,
	system string,
	contents []*genai.Content,
	temperature float32,
	maxTokens int32,
) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	topP := float32(0.9)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: maxTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := g.gen.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", errors.New("gemini returned empty text")
	}
	return text, nil
}

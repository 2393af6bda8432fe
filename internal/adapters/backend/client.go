// Package backend talks to the oracle backend that owns chat, tarot and
// astrology generation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

const (
	pathChat      = "/chat/message"
	pathReading   = "/tarot/reading"
	pathForecast  = "/astrology/daily-insight"
	pathSynastry  = "/astrology/synastry"
	defaultPerson = "Person"
)

// Client implements domain.Gateway over the backend's JSON API.
// Timeouts come from the http.Client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type chatRequest struct {
	ChatID      string            `json:"chat_id"`
	Message     string            `json:"message"`
	CharacterID string            `json:"character_id"`
	History     []domain.ChatTurn `json:"history,omitempty"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

type readingRequest struct {
	UserID      string   `json:"user_id,omitempty"`
	Question    string   `json:"question"`
	CharacterID string   `json:"character_id"`
	SpreadType  string   `json:"spread_type"`
	Cards       []string `json:"cards"`
	IsUpright   bool     `json:"is_upright"`
}

type readingResponse struct {
	Success bool   `json:"success"`
	Reading string `json:"reading"`
	Error   string `json:"error"`
}

// natalChart is the backend's birth data shape.
type natalChart struct {
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Name      string  `json:"name,omitempty"`
}

// dailyInsightResponse is the backend's sky-of-the-day reading. It is the
// same for every caller; birth data is not part of the request.
type dailyInsightResponse struct {
	Date              string  `json:"date"`
	MoonPhase         string  `json:"moon_phase"`
	MoonPhaseIcon     string  `json:"moon_phase_icon"`
	MoonIllumination  float64 `json:"moon_illumination"`
	MoonSign          string  `json:"moon_sign"`
	MoonElement       string  `json:"moon_element"`
	MercuryRetrograde bool    `json:"mercury_retrograde"`
	MercuryStatus     string  `json:"mercury_status"`
	Advice            string  `json:"advice"`
	SunSign           string  `json:"sun_sign"`
}

func (d dailyInsightResponse) forecast() domain.ForecastResult {
	out := domain.ForecastResult{Text: strings.TrimSpace(d.Advice)}

	if d.MoonPhase != "" {
		vibe := strings.TrimSpace(d.MoonPhaseIcon + " " + d.MoonPhase)
		if d.MoonSign != "" {
			vibe += " in " + d.MoonSign
		}
		out.CosmicVibe = vibe
	}
	if d.MoonElement != "" {
		out.FocusAreas = append(out.FocusAreas, d.MoonElement)
	}
	if d.MercuryStatus != "" {
		out.FocusAreas = append(out.FocusAreas, d.MercuryStatus)
	}
	return out
}

type synastryRequest struct {
	User1 natalChart `json:"user1"`
	User2 natalChart `json:"user2"`
}

type synastryResponse struct {
	CompatibilityScore        int    `json:"compatibility_score"`
	EmotionalCompatibility    int    `json:"emotional_compatibility"`
	IntellectualCompatibility int    `json:"intellectual_compatibility"`
	PhysicalCompatibility     int    `json:"physical_compatibility"`
	SpiritualCompatibility    int    `json:"spiritual_compatibility"`
	AISummary                 string `json:"ai_summary"`
}

func toNatalChart(b domain.BirthData, fallbackName string) natalChart {
	chart := natalChart{
		Date:      b.Date.String(),
		Time:      b.Time,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Timezone:  b.Timezone,
		Name:      b.Name,
	}
	// Noon avoids a day shift when the birth time is unknown.
	if chart.Time == "" {
		chart.Time = "12:00"
	}
	if chart.Timezone == "" {
		chart.Timezone = "UTC"
	}
	if chart.Name == "" {
		chart.Name = fallbackName
	}
	return chart
}

func (c *Client) SendChatTurn(ctx context.Context, req domain.ChatTurnRequest) (string, error) {
	var resp chatResponse
	err := c.post(ctx, pathChat, chatRequest{
		ChatID:      string(req.SessionID),
		Message:     req.Message,
		CharacterID: string(req.PersonaID),
		History:     req.History,
	}, &resp)
	if err == nil && !resp.Success {
		err = upstreamFailure(resp.Error)
	}
	if err == nil && strings.TrimSpace(resp.Response) == "" {
		err = errors.New("empty chat response")
	}
	if err != nil {
		return "", &domain.GatewayError{Op: "chat", Err: err}
	}
	return strings.TrimSpace(resp.Response), nil
}

func (c *Client) GenerateReading(ctx context.Context, req domain.ReadingRequest) (domain.ReadingResult, error) {
	var resp readingResponse
	err := c.post(ctx, pathReading, readingRequest{
		UserID:      string(req.UserID),
		Question:    req.Question,
		CharacterID: string(req.PersonaID),
		SpreadType:  string(req.SpreadType),
		Cards:       []string{req.PrimaryCard},
		IsUpright:   req.IsUpright,
	}, &resp)
	if err == nil && !resp.Success {
		err = upstreamFailure(resp.Error)
	}
	if err != nil {
		return domain.ReadingResult{}, &domain.GatewayError{Op: "reading", Err: err}
	}
	return domain.ReadingResult{Interpretation: strings.TrimSpace(resp.Reading)}, nil
}

func (c *Client) GetForecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error) {
	var resp dailyInsightResponse
	err := c.do(ctx, http.MethodGet, pathForecast, nil, &resp)
	if err == nil && strings.TrimSpace(resp.Advice) == "" {
		err = errors.New("empty forecast")
	}
	if err != nil {
		return domain.ForecastResult{}, &domain.GatewayError{Op: "forecast", Err: err}
	}
	return resp.forecast(), nil
}

func (c *Client) CalculateCompatibility(ctx context.Context, req domain.CompatibilityRequest) (domain.CompatibilityResult, error) {
	var resp synastryResponse
	err := c.post(ctx, pathSynastry, synastryRequest{
		User1: toNatalChart(req.User, defaultPerson+" 1"),
		User2: toNatalChart(req.Partner, defaultPerson+" 2"),
	}, &resp)
	if err != nil {
		return domain.CompatibilityResult{}, &domain.GatewayError{Op: "compatibility", Err: err}
	}

	return domain.CompatibilityResult{
		Score:            resp.CompatibilityScore,
		NarrativeSummary: strings.TrimSpace(resp.AISummary),
		Sections: []domain.CompatibilitySection{
			{Title: "Emotional", Body: fmt.Sprintf("%d%%", resp.EmotionalCompatibility)},
			{Title: "Intellectual", Body: fmt.Sprintf("%d%%", resp.IntellectualCompatibility)},
			{Title: "Physical", Body: fmt.Sprintf("%d%%", resp.PhysicalCompatibility)},
			{Title: "Spiritual", Body: fmt.Sprintf("%d%%", resp.SpiritualCompatibility)},
		},
	}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// do sends in as a JSON body when it is non-nil and decodes the reply into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := observability.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.LoggerFromContext(ctx).Warn("backend returned error status",
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func upstreamFailure(msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Errorf("backend reported failure: %s", msg)
}

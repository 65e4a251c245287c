package music

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
)

var positiveStyles = []string{"hiphop", "battle rap", "aggressive", "energetic", "lyrical"}
var negativeStyles = []string{"melodic choruses", "pop", "slow", "acoustic"}

// Client renders audio through an ElevenLabs-style music API in two steps:
// create a composition plan from a prompt, then compose audio from the plan.
type Client struct {
	APIKey  string
	BaseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Compose(ctx context.Context, lyrics string, targetDurationMs int) (*Composition, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: missing music API key", domain.ErrGenerationFailed)
	}

	prompt := "Rap battle with these lyrics: " + lyrics

	plan, err := c.createPlan(ctx, prompt, targetDurationMs)
	if err != nil {
		return nil, err
	}

	audio, contentType, err := c.composeFromPlan(ctx, plan)
	if err != nil {
		return nil, err
	}

	return &Composition{
		Audio:       audio,
		ContentType: contentType,
		Prompt:      prompt,
		Plan:        *plan,
	}, nil
}

func (c *Client) createPlan(ctx context.Context, prompt string, targetDurationMs int) (*Plan, error) {
	payload := map[string]any{
		"prompt":          prompt,
		"music_length_ms": targetDurationMs,
		"source_composition_plan": map[string]any{
			"positiveGlobalStyles": positiveStyles,
			"negativeGlobalStyles": negativeStyles,
			"sections":             []any{},
		},
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/music/plan", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: music plan API status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	var plan Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if plan.DurationMs() <= 0 {
		return nil, fmt.Errorf("%w: composition plan has no duration", domain.ErrGenerationFailed)
	}
	return &plan, nil
}

func (c *Client) composeFromPlan(ctx context.Context, plan *Plan) ([]byte, string, error) {
	payload := map[string]any{"composition_plan": plan}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/music/compose", bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, "", fmt.Errorf("%w: music compose API status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	var out struct {
		Audio       string `json:"audio"` // base64
		ContentType string `json:"content_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	audio, err := base64.StdEncoding.DecodeString(out.Audio)
	if err != nil {
		return nil, "", fmt.Errorf("%w: bad audio encoding: %v", domain.ErrGenerationFailed, err)
	}
	if len(audio) == 0 {
		return nil, "", fmt.Errorf("%w: empty audio", domain.ErrGenerationFailed)
	}

	contentType := out.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return audio, contentType, nil
}

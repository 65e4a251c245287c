package lyrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
)

const systemPrompt = `You are a battle rapper and a masterful lyricist. Your job is to write hard core rap diss lyrics that will destroy opponents with sharp bars and sonic precision.

Your lyrical style is heavily inspired by the likes of Eminem and Kendrick Lamar.

You don't try to squeeze a lot of words but you try to be crystal precise that it hits them hard.

REMEMBER TO ONLY WRITE LYRICS THAT ARE STRICTLY 8 BAR LYRICS (only enough for 20 seconds). NO MORE NO LESS.`

// Client generates lyrics through an OpenAI-compatible chat completions API.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	http    *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: missing lyrics API key", domain.ErrGenerationFailed)
	}

	payload := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(req)},
		},
		"temperature": 0.9,
		"max_tokens":  400,
		"user":        req.ThreadID,
	}
	b, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: lyrics API status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrGenerationFailed)
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty lyrics", domain.ErrGenerationFailed)
	}
	return text, nil
}

func buildPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This is a rap battle with the theme: %q. You are %s.\n\n", req.Theme, req.AgentName)

	if req.Instructions != "" {
		fmt.Fprintf(&sb, "Your human partner gives you these instructions: %q\n\n", req.Instructions)
	}

	if req.OpponentLyrics != nil {
		fmt.Fprintf(&sb, "Your opponent just dropped this:\n\n%s\n\nNow it's your turn. Write hard-hitting lyrics that respond and destroy them. ONLY output the lyrics, nothing else.", *req.OpponentLyrics)
	} else {
		sb.WriteString("You're going first. Write opening lyrics that set the tone. ONLY output the lyrics, nothing else.")
	}

	return sb.String()
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*GroqAdapter)(nil)

// GroqAdapter implements adapter.CompletionAdapter against Groq's
// OpenAI-compatible Chat Completions API.
type GroqAdapter struct {
	apiKey      string
	base        string // e.g. https://api.groq.com/openai/v1
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

func NewGroqAdapter(apiKey, model string, temperature float64, maxTokens int) (*GroqAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("groq api key empty")
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqAdapter{
		apiKey:      apiKey,
		base:        "https://api.groq.com/openai/v1",
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (g *GroqAdapter) Complete(ctx context.Context, messages []adapter.Message) (string, error) {
	return g.complete(ctx, messages, g.temperature, g.maxTokens)
}

func (g *GroqAdapter) complete(ctx context.Context, messages []adapter.Message, temperature float64, maxTokens int) (string, error) {
	reqBody := struct {
		Model       string            `json:"model"`
		Messages    []adapter.Message `json:"messages"`
		Temperature float64           `json:"temperature"`
		MaxTokens   int               `json:"max_tokens"`
	}{Model: g.model, Messages: messages, Temperature: temperature, MaxTokens: maxTokens}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("groq", time.Since(start).Milliseconds(), false)
		return "", fmt.Errorf("%w: groq: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("groq", time.Since(start).Milliseconds(), false)
		return "", fmt.Errorf("%w: groq http %d", domain.ErrProviderError, resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveProviderCall("groq", time.Since(start).Milliseconds(), false)
		return "", fmt.Errorf("%w: groq: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("groq", time.Since(start).Milliseconds(), true)

	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", fmt.Errorf("%w: groq returned no choice content", domain.ErrProviderError)
}

const suggestSystem = "Generate 3-5 short related suggestions for continuing the conversation."

var fallbackSuggestions = []string{
	"Explain in simpler terms",
	"Give me a summary",
	"Show related topics",
}

func (g *GroqAdapter) Suggest(ctx context.Context, reply string) ([]string, error) {
	prompt := fmt.Sprintf(
		"You are an AI assistant that suggests follow-up questions based on the bot's last reply. "+
			"Reply only with a JSON array of 4-5 concise suggestions. Do not add explanation text, just the array.\n\nBot reply: %q",
		reply,
	)
	out, err := g.complete(ctx, []adapter.Message{
		{Role: "system", Content: suggestSystem},
		{Role: "user", Content: prompt},
	}, 0.7, 200)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &suggestions); err != nil || len(suggestions) == 0 {
		// Model ignored the format; keep the endpoint usable.
		return fallbackSuggestions, nil
	}
	return suggestions, nil
}

package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/metrics"
)

var _ adapter.ImageGenAdapter = (*Pollinations)(nil)

// Pollinations renders images from prompts; the endpoint needs no key.
type Pollinations struct {
	base   string
	client *http.Client
}

func NewPollinations(timeout time.Duration) *Pollinations {
	return &Pollinations{
		base:   "https://image.pollinations.ai/prompt/",
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Pollinations) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: empty prompt", domain.ErrValidation)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, p.base+url.PathEscape(prompt), nil)
	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("pollinations", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: pollinations: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("pollinations", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: pollinations http %d", domain.ErrProviderError, resp.StatusCode)
	}
	img, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveProviderCall("pollinations", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: pollinations: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("pollinations", time.Since(start).Milliseconds(), true)
	return img, nil
}

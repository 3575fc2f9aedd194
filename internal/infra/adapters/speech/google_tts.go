package speech

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

var _ adapter.SpeechAdapter = (*GoogleTTS)(nil)

// GoogleTTS fetches mp3 audio from the Google Translate TTS endpoint.
// No API key is required for this endpoint.
type GoogleTTS struct {
	base   string
	client *http.Client
}

func NewGoogleTTS(timeout time.Duration) *GoogleTTS {
	return &GoogleTTS{
		base:   "https://translate.google.com/translate_tts",
		client: &http.Client{Timeout: timeout},
	}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrValidation)
	}
	if lang == "" {
		lang = "en"
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"?"+q.Encode(), nil)
	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("tts", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: tts: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("tts", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: tts http %d", domain.ErrProviderError, resp.StatusCode)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveProviderCall("tts", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: tts: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("tts", time.Since(start).Milliseconds(), true)
	return audio, nil
}

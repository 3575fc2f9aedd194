package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/metrics"
)

var _ adapter.KnowledgeAdapter = (*Client)(nil)

// Client bundles the keyless reference lookups (Wikipedia, dictionary,
// quotes, jokes) behind one adapter.
type Client struct {
	wikiBase string
	dictBase string
	quoteURL string
	jokeURL  string
	client   *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		wikiBase: "https://en.wikipedia.org/api/rest_v1/page/summary/",
		dictBase: "https://api.dictionaryapi.dev/api/v2/entries/en/",
		quoteURL: "https://zenquotes.io/api/random",
		jokeURL:  "https://v2.jokeapi.dev/joke/Programming?type=single",
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) WikiSummary(ctx context.Context, query string) (*adapter.WikiSummary, error) {
	if query == "" {
		query = "Studio Ghibli"
	}
	var payload struct {
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := c.get(ctx, "wikipedia", c.wikiBase+url.PathEscape(query), &payload); err != nil {
		return nil, err
	}
	return &adapter.WikiSummary{
		Title:   payload.Title,
		Extract: payload.Extract,
		URL:     payload.ContentURLs.Desktop.Page,
	}, nil
}

func (c *Client) Define(ctx context.Context, word string) (*adapter.Definition, error) {
	if word == "" {
		word = "ethereal"
	}
	var payload []struct {
		Word     string `json:"word"`
		Phonetic string `json:"phonetic"`
		Meanings []struct {
			Definitions []struct {
				Definition string `json:"definition"`
			} `json:"definitions"`
			Synonyms []string `json:"synonyms"`
		} `json:"meanings"`
	}
	if err := c.get(ctx, "dictionary", c.dictBase+url.PathEscape(word), &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 || len(payload[0].Meanings) == 0 || len(payload[0].Meanings[0].Definitions) == 0 {
		return nil, fmt.Errorf("%w: no definition for %q", domain.ErrNotFound, word)
	}
	return &adapter.Definition{
		Word:     payload[0].Word,
		Phonetic: payload[0].Phonetic,
		Meaning:  payload[0].Meanings[0].Definitions[0].Definition,
		Synonyms: payload[0].Meanings[0].Synonyms,
	}, nil
}

func (c *Client) Quote(ctx context.Context) (*adapter.Quote, error) {
	var payload []struct {
		Q string `json:"q"`
		A string `json:"a"`
	}
	if err := c.get(ctx, "zenquotes", c.quoteURL, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty quote response", domain.ErrProviderError)
	}
	return &adapter.Quote{Quote: payload[0].Q, Author: payload[0].A}, nil
}

func (c *Client) Joke(ctx context.Context) (string, error) {
	var payload struct {
		Joke string `json:"joke"`
	}
	if err := c.get(ctx, "jokeapi", c.jokeURL, &payload); err != nil {
		return "", err
	}
	if payload.Joke == "" {
		return "", fmt.Errorf("%w: empty joke response", domain.ErrProviderError)
	}
	return payload.Joke, nil
}

func (c *Client) get(ctx context.Context, provider, endpoint string, out interface{}) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall(provider, time.Since(start).Milliseconds(), false)
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, provider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		metrics.ObserveProviderCall(provider, time.Since(start).Milliseconds(), false)
		return fmt.Errorf("%w: %s", domain.ErrNotFound, provider)
	}
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall(provider, time.Since(start).Milliseconds(), false)
		return fmt.Errorf("%w: %s http %d", domain.ErrProviderError, provider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveProviderCall(provider, time.Since(start).Milliseconds(), false)
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderError, provider, err)
	}
	metrics.ObserveProviderCall(provider, time.Since(start).Milliseconds(), true)
	return nil
}

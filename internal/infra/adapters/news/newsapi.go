package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/metrics"
)

var _ adapter.NewsAdapter = (*NewsAPI)(nil)

// NewsAPI queries newsapi.org; the literal query "top" selects the
// top-headlines feed, anything else searches everything.
type NewsAPI struct {
	apiKey string
	base   string
	client *http.Client
}

func NewNewsAPI(apiKey string, timeout time.Duration) (*NewsAPI, error) {
	if apiKey == "" {
		return nil, errors.New("news api key empty")
	}
	return &NewsAPI{
		apiKey: apiKey,
		base:   "https://newsapi.org/v2",
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (n *NewsAPI) Search(ctx context.Context, query, lang string, pageSize int) ([]adapter.Article, error) {
	if query == "" {
		query = "top"
	}
	if lang == "" {
		lang = "en"
	}
	if pageSize <= 0 {
		pageSize = 8
	}

	q := url.Values{}
	q.Set("language", lang)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("apiKey", n.apiKey)

	endpoint := n.base + "/top-headlines"
	if !strings.EqualFold(query, "top") {
		endpoint = n.base + "/everything"
		q.Set("q", query)
		q.Set("sortBy", "publishedAt")
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("newsapi", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: newsapi: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("newsapi", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: newsapi http %d", domain.ErrProviderError, resp.StatusCode)
	}

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			URLToImage  string `json:"urlToImage"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveProviderCall("newsapi", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: newsapi: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("newsapi", time.Since(start).Milliseconds(), true)

	articles := make([]adapter.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, adapter.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Image:       a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

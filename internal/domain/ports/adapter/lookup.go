package adapter

import "context"

// WeatherReport is the reshaped current-conditions payload.
type WeatherReport struct {
	Location   string  `json:"location"`
	Region     string  `json:"region"`
	Country    string  `json:"country"`
	TempC      float64 `json:"temperature_c"`
	TempF      float64 `json:"temperature_f"`
	Condition  string  `json:"condition"`
	Icon       string  `json:"icon"`
	FeelsLikeC float64 `json:"feelslike_c"`
	Humidity   int     `json:"humidity"`
	WindKPH    float64 `json:"wind_kph"`
}

type WeatherAdapter interface {
	Current(ctx context.Context, city string) (*WeatherReport, error)
}

// Article is one reshaped news item.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

type NewsAdapter interface {
	// Search returns articles for query; "top" selects top headlines.
	Search(ctx context.Context, query, lang string, pageSize int) ([]Article, error)
}

// WikiSummary is a trimmed Wikipedia page summary.
type WikiSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url"`
}

// Definition is a trimmed dictionary entry.
type Definition struct {
	Word     string   `json:"word"`
	Phonetic string   `json:"phonetic"`
	Meaning  string   `json:"meaning"`
	Synonyms []string `json:"synonyms"`
}

// Quote is a quote with attribution.
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// KnowledgeAdapter groups the small reference lookups the assistant offers.
type KnowledgeAdapter interface {
	WikiSummary(ctx context.Context, query string) (*WikiSummary, error)
	Define(ctx context.Context, word string) (*Definition, error)
	Quote(ctx context.Context) (*Quote, error)
	Joke(ctx context.Context) (string, error)
}

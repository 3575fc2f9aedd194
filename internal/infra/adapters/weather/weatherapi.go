package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/metrics"
)

var _ adapter.WeatherAdapter = (*WeatherAPI)(nil)

// WeatherAPI fetches current conditions from weatherapi.com.
type WeatherAPI struct {
	apiKey string
	base   string
	client *http.Client
}

func NewWeatherAPI(apiKey string, timeout time.Duration) (*WeatherAPI, error) {
	if apiKey == "" {
		return nil, errors.New("weather api key empty")
	}
	return &WeatherAPI{
		apiKey: apiKey,
		base:   "https://api.weatherapi.com/v1/current.json",
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (w *WeatherAPI) Current(ctx context.Context, city string) (*adapter.WeatherReport, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}

	q := url.Values{}
	q.Set("key", w.apiKey)
	q.Set("q", city)
	q.Set("aqi", "no")

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, w.base+"?"+q.Encode(), nil)
	start := time.Now()
	resp, err := w.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("weatherapi", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: weatherapi: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("weatherapi", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: weatherapi http %d", domain.ErrProviderError, resp.StatusCode)
	}

	var payload struct {
		Location struct {
			Name    string `json:"name"`
			Region  string `json:"region"`
			Country string `json:"country"`
		} `json:"location"`
		Current struct {
			TempC     float64 `json:"temp_c"`
			TempF     float64 `json:"temp_f"`
			Condition struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
			} `json:"condition"`
			FeelsLikeC float64 `json:"feelslike_c"`
			Humidity   int     `json:"humidity"`
			WindKPH    float64 `json:"wind_kph"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveProviderCall("weatherapi", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: weatherapi: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("weatherapi", time.Since(start).Milliseconds(), true)

	return &adapter.WeatherReport{
		Location:   payload.Location.Name,
		Region:     payload.Location.Region,
		Country:    payload.Location.Country,
		TempC:      payload.Current.TempC,
		TempF:      payload.Current.TempF,
		Condition:  payload.Current.Condition.Text,
		Icon:       payload.Current.Condition.Icon,
		FeelsLikeC: payload.Current.FeelsLikeC,
		Humidity:   payload.Current.Humidity,
		WindKPH:    payload.Current.WindKPH,
	}, nil
}

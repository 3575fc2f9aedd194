package vision

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

var _ adapter.VisionAdapter = (*HuggingFaceClassifier)(nil)

// HuggingFaceClassifier classifies images through the Hugging Face
// inference API (resnet-50 by default).
type HuggingFaceClassifier struct {
	apiKey string
	url    string
	client *http.Client
}

func NewHuggingFaceClassifier(apiKey string, timeout time.Duration) (*HuggingFaceClassifier, error) {
	if apiKey == "" {
		return nil, errors.New("huggingface api key empty")
	}
	return &HuggingFaceClassifier{
		apiKey: apiKey,
		url:    "https://api-inference.huggingface.co/models/microsoft/resnet-50",
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (h *HuggingFaceClassifier) Classify(ctx context.Context, image []byte) ([]adapter.Label, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image payload", domain.ErrValidation)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(image))
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("huggingface", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: huggingface: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("huggingface", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: huggingface http %d", domain.ErrProviderError, resp.StatusCode)
	}

	var payload []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.ObserveProviderCall("huggingface", time.Since(start).Milliseconds(), false)
		return nil, fmt.Errorf("%w: huggingface: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("huggingface", time.Since(start).Milliseconds(), true)

	labels := make([]adapter.Label, 0, len(payload))
	for _, p := range payload {
		labels = append(labels, adapter.Label{Name: strings.ToLower(p.Label), Score: p.Score})
	}
	return labels, nil
}

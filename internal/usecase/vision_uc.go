// File: internal/usecase/vision_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
)

var _ VisionUseCase = (*visionUC)(nil)

// VisionMatch is the analysis result: the classifier's labels plus which
// of them appear in the caller's prompt.
type VisionMatch struct {
	Prompt        string   `json:"prompt"`
	Labels        []string `json:"labels"`
	MatchedLabels []string `json:"matchedLabels"`
	MatchFound    bool     `json:"matchFound"`
}

type VisionUseCase interface {
	Analyze(ctx context.Context, prompt string, image []byte) (*VisionMatch, error)
}

type visionUC struct {
	vision adapter.VisionAdapter
}

func NewVisionUseCase(vision adapter.VisionAdapter) *visionUC {
	return &visionUC{vision: vision}
}

func (v *visionUC) Analyze(ctx context.Context, prompt string, image []byte) (*VisionMatch, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: no image uploaded", domain.ErrValidation)
	}
	if v.vision == nil {
		return nil, fmt.Errorf("%w: no vision provider configured", domain.ErrProviderUnavailable)
	}

	classified, err := v.vision.Classify(ctx, image)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(classified))
	for _, l := range classified {
		labels = append(labels, l.Name)
	}

	normalized := strings.ToLower(prompt)
	matched := make([]string, 0, len(labels))
	for _, label := range labels {
		if label != "" && strings.Contains(normalized, label) {
			matched = append(matched, label)
		}
	}

	return &VisionMatch{
		Prompt:        prompt,
		Labels:        labels,
		MatchedLabels: matched,
		MatchFound:    len(matched) > 0,
	}, nil
}

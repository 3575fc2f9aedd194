// File: internal/usecase/media_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/media"
)

var _ MediaUseCase = (*mediaUC)(nil)

type MediaUseCase interface {
	// Speak synthesizes text and returns the public URL of the stored mp3.
	Speak(ctx context.Context, text, lang string) (string, error)

	// GenerateImage renders a prompt and returns the raw png bytes.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type mediaUC struct {
	speech adapter.SpeechAdapter
	images adapter.ImageGenAdapter
	store  *media.Store
}

func NewMediaUseCase(speech adapter.SpeechAdapter, images adapter.ImageGenAdapter, store *media.Store) *mediaUC {
	return &mediaUC{speech: speech, images: images, store: store}
}

func (m *mediaUC) Speak(ctx context.Context, text, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text provided", domain.ErrValidation)
	}
	audio, err := m.speech.Synthesize(ctx, text, lang)
	if err != nil {
		return "", err
	}
	return m.store.Save("tts", ".mp3", audio)
}

func (m *mediaUC) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	return m.images.Generate(ctx, prompt)
}

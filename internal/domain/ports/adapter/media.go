package adapter

import "context"

// SpeechAdapter synthesizes spoken audio from text.
type SpeechAdapter interface {
	// Synthesize returns mp3 bytes for the given text and language code.
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// Label is one image-classification result.
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}

// VisionAdapter classifies an image into labels.
type VisionAdapter interface {
	Classify(ctx context.Context, image []byte) ([]Label, error)
}

// ImageGenAdapter renders an image from a text prompt.
type ImageGenAdapter interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

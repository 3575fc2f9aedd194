package adapter

import (
	"context"

	"chat-assistant-backend/internal/domain/model"
)

// TranscriptionAdapter is the port for the asynchronous speech-to-text
// provider. Work is submitted, then polled until a terminal state.
type TranscriptionAdapter interface {
	// Upload stores raw audio with the provider and returns a URL the
	// provider can transcribe from.
	Upload(ctx context.Context, audio []byte) (string, error)

	// Submit requests transcription of the uploaded audio and returns a
	// job in the submitted state carrying the provider-issued id.
	Submit(ctx context.Context, audioURL string) (*model.TranscriptionJob, error)

	// Poll performs one status round trip and advances the job state.
	Poll(ctx context.Context, job *model.TranscriptionJob) (*model.TranscriptionJob, error)

	// AwaitCompletion polls at a fixed interval until the job reaches a
	// terminal state, the wait budget is exhausted (domain.ErrTimeout) or
	// ctx is cancelled. The context is checked before every poll.
	AwaitCompletion(ctx context.Context, job *model.TranscriptionJob) (string, error)
}

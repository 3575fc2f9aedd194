// File: internal/usecase/transcription_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/domain/ports/repository"
	"chat-assistant-backend/internal/infra/metrics"
)

var _ TranscriptionUseCase = (*transcriptionUC)(nil)

// TranscriptResult is what the STT endpoint returns to the frontend.
type TranscriptResult struct {
	Filename   string `json:"filename"`
	AudioURL   string `json:"audioUrl"`
	Transcript string `json:"transcript"`
}

type TranscriptionUseCase interface {
	// Transcribe uploads audio, submits the transcription job and waits
	// for its terminal state. Job snapshots are kept in the job store so
	// in-flight status stays inspectable.
	Transcribe(ctx context.Context, filename string, audio []byte) (*TranscriptResult, error)

	// JobStatus reports the last stored snapshot of a job.
	JobStatus(ctx context.Context, jobID string) (*model.TranscriptionJob, error)
}

type transcriptionUC struct {
	stt  adapter.TranscriptionAdapter
	jobs repository.TranscriptionJobStore
	log  *zerolog.Logger
}

func NewTranscriptionUseCase(stt adapter.TranscriptionAdapter, jobs repository.TranscriptionJobStore, log *zerolog.Logger) *transcriptionUC {
	return &transcriptionUC{stt: stt, jobs: jobs, log: log}
}

func (t *transcriptionUC) Transcribe(ctx context.Context, filename string, audio []byte) (*TranscriptResult, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: no audio file uploaded", domain.ErrValidation)
	}
	if t.stt == nil {
		return nil, fmt.Errorf("%w: no transcription provider configured", domain.ErrProviderUnavailable)
	}

	audioURL, err := t.stt.Upload(ctx, audio)
	if err != nil {
		return nil, err
	}
	t.log.Info().Str("filename", filename).Msg("audio uploaded")

	job, err := t.stt.Submit(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	if err := t.jobs.Save(ctx, job); err != nil {
		t.log.Warn().Err(err).Str("job_id", job.ID).Msg("job snapshot save failed")
	}

	start := time.Now()
	transcript, err := t.stt.AwaitCompletion(ctx, job)
	metrics.ObserveTranscriptionWait(time.Since(start).Seconds())

	// Persist the terminal snapshot regardless of outcome; the request
	// context may already be cancelled, so detach.
	saveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if saveErr := t.jobs.Save(saveCtx, job); saveErr != nil {
		t.log.Warn().Err(saveErr).Str("job_id", job.ID).Msg("terminal snapshot save failed")
	}

	if err != nil {
		metrics.IncTranscriptionJob(outcomeLabel(err))
		return nil, err
	}
	metrics.IncTranscriptionJob(string(model.JobStateCompleted))
	t.log.Info().Str("job_id", job.ID).Msg("transcription complete")

	return &TranscriptResult{Filename: filename, AudioURL: audioURL, Transcript: transcript}, nil
}

func (t *transcriptionUC) JobStatus(ctx context.Context, jobID string) (*model.TranscriptionJob, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", domain.ErrValidation)
	}
	job, ok := t.jobs.Find(ctx, jobID)
	if !ok {
		return nil, fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
	}
	return job, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return string(model.JobStateFailed)
	}
}

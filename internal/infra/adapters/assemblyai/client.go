// File: internal/infra/adapters/assemblyai/client.go
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"chat-assistant-backend/internal/config"
	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/infra/metrics"
)

var _ adapter.TranscriptionAdapter = (*Client)(nil)

// Client drives AssemblyAI's submit-then-poll transcription protocol.
// Polling runs at a fixed interval under a hard wait budget, tolerates a
// bounded run of transient poll errors, and honors ctx before every poll.
type Client struct {
	apiKey           string
	base             string // e.g. https://api.assemblyai.com/v2
	pollInterval     time.Duration
	maxWait          time.Duration
	submitTimeout    time.Duration
	transientRetries int
	client           *http.Client
	log              *zerolog.Logger
}

func NewClient(apiKey string, cfg config.TranscriptionConfig, log *zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("assemblyai api key empty")
	}
	return &Client{
		apiKey:           apiKey,
		base:             "https://api.assemblyai.com/v2",
		pollInterval:     cfg.PollInterval,
		maxWait:          cfg.MaxWait,
		submitTimeout:    cfg.SubmitTimeout,
		transientRetries: cfg.TransientRetries,
		client:           &http.Client{},
		log:              log,
	}, nil
}

func (c *Client) Upload(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", domain.ErrValidation)
	}
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload", bytes.NewReader(audio))
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var payload struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", err
	}
	if payload.UploadURL == "" {
		return "", fmt.Errorf("%w: upload returned no url", domain.ErrProviderError)
	}
	return payload.UploadURL, nil
}

func (c *Client) Submit(ctx context.Context, audioURL string) (*model.TranscriptionJob, error) {
	if audioURL == "" {
		return nil, fmt.Errorf("%w: empty audio url", domain.ErrValidation)
	}
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	body, _ := json.Marshal(struct {
		AudioURL          string `json:"audio_url"`
		SpeakerLabels     bool   `json:"speaker_labels"`
		SentimentAnalysis bool   `json:"sentiment_analysis"`
		EntityDetection   bool   `json:"entity_detection"`
	}{AudioURL: audioURL, SpeakerLabels: true, SentimentAnalysis: true, EntityDetection: true})

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/transcript", bytes.NewReader(body))
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		return nil, fmt.Errorf("%w: transcript request returned no id", domain.ErrProviderError)
	}

	job := model.NewTranscriptionJob(payload.ID, audioURL)
	c.log.Info().Str("job_id", job.ID).Msg("transcription requested")
	return job, nil
}

func (c *Client) Poll(ctx context.Context, job *model.TranscriptionJob) (*model.TranscriptionJob, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/transcript/"+job.ID, nil)
	req.Header.Set("Authorization", c.apiKey)

	metrics.IncTranscriptionPoll()
	var payload struct {
		Status string `json:"status"`
		Text   string `json:"text"`
		Error  string `json:"error"`
	}
	if err := c.do(req, &payload); err != nil {
		return job, err
	}
	job.LastPolledAt = time.Now()

	switch payload.Status {
	case "completed":
		if err := job.Advance(model.JobStateCompleted); err != nil {
			return job, err
		}
		job.Transcript = payload.Text
	case "error":
		_ = job.Advance(model.JobStateFailed)
		job.LastError = payload.Error
		return job, fmt.Errorf("%w: %s", domain.ErrProviderError, payload.Error)
	case "queued", "processing":
		if job.State == model.JobStateSubmitted {
			_ = job.Advance(model.JobStatePolling)
		}
	default:
		return job, fmt.Errorf("%w: unknown transcript status %q", domain.ErrProviderError, payload.Status)
	}
	c.log.Debug().Str("job_id", job.ID).Str("status", payload.Status).Msg("transcription status")
	return job, nil
}

// AwaitCompletion is the polling state machine: it exits on success, on a
// provider-reported failure, when maxWait elapses, or when ctx is
// cancelled. Transient poll errors are retried up to transientRetries
// consecutive times before the provider is declared unavailable.
func (c *Client) AwaitCompletion(ctx context.Context, job *model.TranscriptionJob) (string, error) {
	deadline := time.Now().Add(c.maxWait)
	consecutiveErrs := 0

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if time.Now().After(deadline) {
			c.log.Warn().Str("job_id", job.ID).Dur("max_wait", c.maxWait).Msg("transcription wait budget exhausted")
			return "", fmt.Errorf("%w: transcription %s", domain.ErrTimeout, job.ID)
		}

		updated, err := c.Poll(ctx, job)
		switch {
		case err == nil:
			consecutiveErrs = 0
			if updated.State == model.JobStateCompleted {
				return updated.Transcript, nil
			}
		case errors.Is(err, domain.ErrProviderError):
			return "", err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return "", err
		default:
			consecutiveErrs++
			if consecutiveErrs >= c.transientRetries {
				return "", fmt.Errorf("%w: %d consecutive poll failures: %v", domain.ErrProviderUnavailable, consecutiveErrs, err)
			}
			c.log.Warn().Err(err).Str("job_id", job.ID).Int("consecutive", consecutiveErrs).Msg("transient poll failure")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("assemblyai", time.Since(start).Milliseconds(), false)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: assemblyai: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("assemblyai", time.Since(start).Milliseconds(), false)
		return fmt.Errorf("%w: assemblyai http %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveProviderCall("assemblyai", time.Since(start).Milliseconds(), false)
		return fmt.Errorf("%w: assemblyai: %v", domain.ErrProviderError, err)
	}
	metrics.ObserveProviderCall("assemblyai", time.Since(start).Milliseconds(), true)
	return nil
}

// SetBaseURL points the client at a different endpoint; tests use this to
// target a local fake provider.
func (c *Client) SetBaseURL(base string) { c.base = base }

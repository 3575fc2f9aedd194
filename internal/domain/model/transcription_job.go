package model

import (
	"fmt"
	"time"

	"chat-assistant-backend/internal/domain"
)

type JobState string

const (
	JobStateSubmitted JobState = "submitted"
	JobStatePolling   JobState = "polling"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// stateRank orders states so a job can only move forward.
var stateRank = map[JobState]int{
	JobStateSubmitted: 0,
	JobStatePolling:   1,
	JobStateCompleted: 2,
	JobStateFailed:    2,
}

// TranscriptionJob tracks one unit of asynchronous work submitted to the
// transcription provider. The ID is issued by the provider.
type TranscriptionJob struct {
	ID           string    `json:"id"`
	State        JobState  `json:"state"`
	AudioURL     string    `json:"audio_url"`
	Transcript   string    `json:"transcript,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
	LastPolledAt time.Time `json:"last_polled_at"`
}

func NewTranscriptionJob(id, audioURL string) *TranscriptionJob {
	return &TranscriptionJob{
		ID:          id,
		State:       JobStateSubmitted,
		AudioURL:    audioURL,
		SubmittedAt: time.Now(),
	}
}

// Terminal reports whether no further state transition is possible.
func (j *TranscriptionJob) Terminal() bool {
	return j.State == JobStateCompleted || j.State == JobStateFailed
}

// Advance moves the job to next. Terminal states are immutable and the
// state machine never moves backward.
func (j *TranscriptionJob) Advance(next JobState) error {
	if _, ok := stateRank[next]; !ok {
		return fmt.Errorf("%w: unknown job state %q", domain.ErrValidation, next)
	}
	if j.Terminal() {
		return fmt.Errorf("%w: job %s already %s", domain.ErrValidation, j.ID, j.State)
	}
	if stateRank[next] < stateRank[j.State] {
		return fmt.Errorf("%w: job %s cannot move %s -> %s", domain.ErrValidation, j.ID, j.State, next)
	}
	j.State = next
	return nil
}

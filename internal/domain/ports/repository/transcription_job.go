package repository

import (
	"context"

	"chat-assistant-backend/internal/domain/model"
)

// TranscriptionJobStore keeps short-lived snapshots of transcription jobs
// so their status can be inspected while they run. Terminal snapshots are
// dropped by the store's own expiry.
type TranscriptionJobStore interface {
	Save(ctx context.Context, job *model.TranscriptionJob) error
	Find(ctx context.Context, id string) (*model.TranscriptionJob, bool)
	Delete(ctx context.Context, id string)
}

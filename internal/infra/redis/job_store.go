package redis

import (
	"context"
	"encoding/json"
	"time"

	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

var _ repository.TranscriptionJobStore = (*TranscriptionJobStore)(nil)

// TranscriptionJobStore keeps JSON snapshots of transcription jobs under a
// TTL. Terminal snapshots age out on their own; no sweeper is needed.
type TranscriptionJobStore struct {
	client RedisClient
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewTranscriptionJobStore(client RedisClient, ttl time.Duration, log *zerolog.Logger) *TranscriptionJobStore {
	return &TranscriptionJobStore{client: client, ttl: ttl, log: log}
}

func jobKey(id string) string { return "transcription_job:" + id }

func (s *TranscriptionJobStore) Save(ctx context.Context, job *model.TranscriptionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, jobKey(job.ID), data, s.ttl); err != nil {
		return err
	}
	s.log.Debug().Str("job_id", job.ID).Str("state", string(job.State)).Msg("job snapshot saved")
	return nil
}

func (s *TranscriptionJobStore) Find(ctx context.Context, id string) (*model.TranscriptionJob, bool) {
	val, err := s.client.Get(ctx, jobKey(id))
	if err != nil {
		if !s.client.IsNil(err) {
			s.log.Error().Err(err).Str("job_id", id).Msg("job snapshot read failed")
		}
		return nil, false
	}
	var job model.TranscriptionJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		s.log.Error().Err(err).Str("job_id", id).Msg("job snapshot corrupt")
		return nil, false
	}
	return &job, true
}

func (s *TranscriptionJobStore) Delete(ctx context.Context, id string) {
	if err := s.client.Del(ctx, jobKey(id)); err != nil {
		s.log.Error().Err(err).Str("job_id", id).Msg("job snapshot delete failed")
	}
}

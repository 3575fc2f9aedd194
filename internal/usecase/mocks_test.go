package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/domain/ports/repository"
)

// ---- Fakes ----

type memConversationRepo struct {
	mu    sync.Mutex
	turns []model.ConversationTurn

	appendErr error
}

var _ repository.ConversationRepository = (*memConversationRepo)(nil)

func (m *memConversationRepo) Append(ctx context.Context, turn *model.ConversationTurn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if err := turn.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	m.turns = append(m.turns, *turn)
	return nil
}

func (m *memConversationRepo) List(ctx context.Context, userID, conversationID string) ([]model.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ConversationTurn, 0)
	for _, t := range m.turns {
		if t.UserID == userID && t.ConversationID == conversationID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *memConversationRepo) ClearConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.turns[:0]
	var deleted int64
	for _, t := range m.turns {
		if t.UserID == userID && t.ConversationID == conversationID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	m.turns = kept
	return deleted, nil
}

func (m *memConversationRepo) ClearAllForUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.turns[:0]
	var deleted int64
	for _, t := range m.turns {
		if t.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	m.turns = kept
	return deleted, nil
}

func (m *memConversationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

type fakeCompletion struct {
	mu       sync.Mutex
	calls    [][]adapter.Message
	reply    string
	err      error
	suggests []string
}

var _ adapter.CompletionAdapter = (*fakeCompletion)(nil)

func (f *fakeCompletion) Complete(ctx context.Context, messages []adapter.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompletion) Suggest(ctx context.Context, reply string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.suggests, nil
}

func (f *fakeCompletion) lastCall() []adapter.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

type fakeTranscriber struct {
	uploadURL  string
	uploadErr  error
	submitErr  error
	awaitErr   error
	transcript string
}

var _ adapter.TranscriptionAdapter = (*fakeTranscriber)(nil)

func (f *fakeTranscriber) Upload(ctx context.Context, audio []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadURL, nil
}

func (f *fakeTranscriber) Submit(ctx context.Context, audioURL string) (*model.TranscriptionJob, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return model.NewTranscriptionJob("job-1", audioURL), nil
}

func (f *fakeTranscriber) Poll(ctx context.Context, job *model.TranscriptionJob) (*model.TranscriptionJob, error) {
	return job, nil
}

func (f *fakeTranscriber) AwaitCompletion(ctx context.Context, job *model.TranscriptionJob) (string, error) {
	if f.awaitErr != nil {
		_ = job.Advance(model.JobStateFailed)
		return "", f.awaitErr
	}
	_ = job.Advance(model.JobStateCompleted)
	job.Transcript = f.transcript
	return f.transcript, nil
}

type memJobStore struct {
	mu   sync.Mutex
	jobs map[string]model.TranscriptionJob
}

var _ repository.TranscriptionJobStore = (*memJobStore)(nil)

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: make(map[string]model.TranscriptionJob)}
}

func (m *memJobStore) Save(ctx context.Context, job *model.TranscriptionJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memJobStore) Find(ctx context.Context, id string) (*model.TranscriptionJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	return &job, true
}

func (m *memJobStore) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// providerDown builds a fake transcription failure of the unavailable kind.
func providerDown() error {
	return fmt.Errorf("%w: connection refused", domain.ErrProviderUnavailable)
}

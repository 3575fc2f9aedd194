package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"chat-assistant-backend/internal/config"
	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/model"
	red "chat-assistant-backend/internal/infra/redis"
	"chat-assistant-backend/internal/usecase"
)

// ---- Fakes ----

type fakeChat struct {
	reply    string
	suggests []string
	err      error
}

var _ usecase.ChatUseCase = (*fakeChat)(nil)

func (f *fakeChat) SendMessage(ctx context.Context, userID, conversationID, message string) (string, error) {
	return f.reply, f.err
}

func (f *fakeChat) Suggestions(ctx context.Context, reply string) ([]string, error) {
	return f.suggests, f.err
}

type fakeTranscription struct {
	result *usecase.TranscriptResult
	job    *model.TranscriptionJob
	err    error
}

var _ usecase.TranscriptionUseCase = (*fakeTranscription)(nil)

func (f *fakeTranscription) Transcribe(ctx context.Context, filename string, audio []byte) (*usecase.TranscriptResult, error) {
	return f.result, f.err
}

func (f *fakeTranscription) JobStatus(ctx context.Context, jobID string) (*model.TranscriptionJob, error) {
	if f.job == nil {
		return nil, fmt.Errorf("%w: job %s", domain.ErrNotFound, jobID)
	}
	return f.job, f.err
}

type fakeHistory struct {
	turns   []model.ConversationTurn
	deleted int64
	err     error
}

var _ usecase.HistoryUseCase = (*fakeHistory)(nil)

func (f *fakeHistory) Append(ctx context.Context, turn *model.ConversationTurn) error {
	if f.err != nil {
		return f.err
	}
	if err := turn.Validate(); err != nil {
		return err
	}
	f.turns = append(f.turns, *turn)
	return nil
}

func (f *fakeHistory) List(ctx context.Context, userID, conversationID string) ([]model.ConversationTurn, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.turns == nil {
		return []model.ConversationTurn{}, nil
	}
	return f.turns, nil
}

func (f *fakeHistory) ClearConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	return f.deleted, f.err
}

func (f *fakeHistory) ClearAllForUser(ctx context.Context, userID string) (int64, error) {
	return f.deleted, f.err
}

type fakeMedia struct {
	audioURL string
	image    []byte
	err      error
}

var _ usecase.MediaUseCase = (*fakeMedia)(nil)

func (f *fakeMedia) Speak(ctx context.Context, text, lang string) (string, error) {
	return f.audioURL, f.err
}

func (f *fakeMedia) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return f.image, f.err
}

func newTestServer(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := red.NewClient(context.Background(), &config.RedisConfig{URL: mr.Addr()})
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	log := zerolog.Nop()
	if deps.Gateway == nil {
		deps.Gateway = usecase.NewRequestGateway(&log)
	}
	deps.Limiter = red.NewRateLimiter(client)

	cfg := &config.ServerConfig{
		Port:       5000,
		Origins:    []string{"http://localhost:3000"},
		RateLimit:  100,
		RateWindow: time.Minute,
	}
	return NewServer(cfg, deps, &log).Router(t.TempDir())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "10.0.0.1:54321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// ---- Tests ----

func TestRootAndHealth(t *testing.T) {
	h := newTestServer(t, Deps{})

	rec := doJSON(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "API is working!" {
		t.Fatalf("root: code %d body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: code %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("health body %v", body)
	}
}

func TestChatEndpoint(t *testing.T) {
	h := newTestServer(t, Deps{Chat: &fakeChat{reply: "hello there"}})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{
		"message": "hi", "userId": "u1", "conversationId": "c1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["response"] != "hello there" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestChatRejectsMissingMessage(t *testing.T) {
	h := newTestServer(t, Deps{Chat: &fakeChat{reply: "x"}})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"userId": "u1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code %d, want 400", rec.Code)
	}
}

func TestChatProviderFailure(t *testing.T) {
	h := newTestServer(t, Deps{Chat: &fakeChat{
		err: fmt.Errorf("%w: upstream down", domain.ErrProviderUnavailable),
	}})

	rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code %d, want 500", rec.Code)
	}
	var body errorResponse
	decodeBody(t, rec, &body)
	if strings.Contains(body.Error, "upstream down") {
		t.Fatalf("provider detail leaked to client: %q", body.Error)
	}
}

func TestSuggestionsDegradeToEmpty(t *testing.T) {
	h := newTestServer(t, Deps{Chat: &fakeChat{
		err: fmt.Errorf("%w: upstream down", domain.ErrProviderUnavailable),
	}})

	rec := doJSON(t, h, http.MethodPost, "/api/suggestions", map[string]string{"reply": "something"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code %d, want 500", rec.Code)
	}
	var body map[string][]string
	decodeBody(t, rec, &body)
	if body["suggestions"] == nil || len(body["suggestions"]) != 0 {
		t.Fatalf("expected empty suggestions array, got %v", body)
	}
}

func TestSTTEndpoint(t *testing.T) {
	h := newTestServer(t, Deps{Transcription: &fakeTranscription{
		result: &usecase.TranscriptResult{Filename: "clip.webm", AudioURL: "https://cdn/a", Transcript: "hi"},
	}})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "clip.webm")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte("audio-bytes")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/stt", &buf)
	req.RemoteAddr = "10.0.0.1:54321"
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code %d body %s", rec.Code, rec.Body.String())
	}
	var body usecase.TranscriptResult
	decodeBody(t, rec, &body)
	if body.Transcript != "hi" {
		t.Fatalf("unexpected result %+v", body)
	}
}

func TestSTTRejectsMissingFile(t *testing.T) {
	h := newTestServer(t, Deps{Transcription: &fakeTranscription{}})

	rec := doJSON(t, h, http.MethodPost, "/api/stt", map[string]string{"not": "a file"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code %d, want 400", rec.Code)
	}
}

func TestJobStatusEndpoint(t *testing.T) {
	job := model.NewTranscriptionJob("job-9", "https://cdn/a")
	h := newTestServer(t, Deps{Transcription: &fakeTranscription{job: job}})

	rec := doJSON(t, h, http.MethodGet, "/api/stt/job-9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d", rec.Code)
	}
	var body model.TranscriptionJob
	decodeBody(t, rec, &body)
	if body.ID != "job-9" || body.State != model.JobStateSubmitted {
		t.Fatalf("unexpected job %+v", body)
	}
}

func TestJobStatusNotFound(t *testing.T) {
	h := newTestServer(t, Deps{Transcription: &fakeTranscription{}})

	rec := doJSON(t, h, http.MethodGet, "/api/stt/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code %d, want 404", rec.Code)
	}
}

func TestTTSEndpoint(t *testing.T) {
	h := newTestServer(t, Deps{Media: &fakeMedia{audioURL: "http://localhost:5000/media/tts-1.mp3"}})

	rec := doJSON(t, h, http.MethodPost, "/api/tts", map[string]string{"text": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["audioUrl"] == "" {
		t.Fatalf("missing audioUrl in %v", body)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/tts", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty text: code %d, want 400", rec.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	hist := &fakeHistory{deleted: 3}
	h := newTestServer(t, Deps{History: hist})

	// Empty history comes back as [], not null.
	rec := doJSON(t, h, http.MethodGet, "/api/history/u1/c1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: code %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("empty history body = %q, want []", got)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/history/u1/c1", map[string]string{
		"sender": "user", "text": "hello",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("append: code %d body %s", rec.Code, rec.Body.String())
	}
	var turn model.ConversationTurn
	decodeBody(t, rec, &turn)
	if turn.UserID != "u1" || turn.ConversationID != "c1" || turn.Sender != model.SenderUser {
		t.Fatalf("unexpected turn %+v", turn)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/history/u1/c1", map[string]string{
		"sender": "alien", "text": "hello",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sender: code %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/history/u1/c1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: code %d", rec.Code)
	}
	var cleared struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}
	decodeBody(t, rec, &cleared)
	if cleared.Deleted != 3 || cleared.Message == "" {
		t.Fatalf("unexpected clear response %+v", cleared)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/history/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear all: code %d", rec.Code)
	}
}

func TestWeatherUnconfigured(t *testing.T) {
	h := newTestServer(t, Deps{})

	rec := doJSON(t, h, http.MethodGet, "/api/weather?city=London", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code %d, want 500", rec.Code)
	}
}

func TestRateLimitKicksIn(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := red.NewClient(context.Background(), &config.RedisConfig{URL: mr.Addr()})
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	log := zerolog.Nop()
	cfg := &config.ServerConfig{
		Port:       5000,
		Origins:    []string{"http://localhost:3000"},
		RateLimit:  2,
		RateWindow: time.Minute,
	}
	deps := Deps{
		Chat:    &fakeChat{reply: "ok"},
		Gateway: usecase.NewRequestGateway(&log),
		Limiter: red.NewRateLimiter(client),
	}
	h := NewServer(cfg, deps, &log).Router(t.TempDir())

	for i := 0; i < 2; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: code %d", i, rec.Code)
		}
	}
	rec := doJSON(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "hi"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("code %d, want 429", rec.Code)
	}
}

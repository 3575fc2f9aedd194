package model

import (
	"errors"
	"testing"

	"chat-assistant-backend/internal/domain"
)

func TestTranscriptionJobForwardOnly(t *testing.T) {
	job := NewTranscriptionJob("j1", "https://cdn/audio")
	if job.State != JobStateSubmitted {
		t.Fatalf("new job state = %s, want %s", job.State, JobStateSubmitted)
	}
	if job.Terminal() {
		t.Fatal("new job must not be terminal")
	}

	if err := job.Advance(JobStatePolling); err != nil {
		t.Fatalf("submitted -> polling: %v", err)
	}
	if err := job.Advance(JobStateSubmitted); err == nil {
		t.Fatal("polling -> submitted must fail")
	}
	if err := job.Advance(JobStateCompleted); err != nil {
		t.Fatalf("polling -> completed: %v", err)
	}
	if !job.Terminal() {
		t.Fatal("completed job must be terminal")
	}

	// Terminal states are immutable.
	if err := job.Advance(JobStateFailed); err == nil {
		t.Fatal("completed -> failed must fail")
	}
	if job.State != JobStateCompleted {
		t.Fatalf("terminal state mutated to %s", job.State)
	}
}

func TestTranscriptionJobUnknownState(t *testing.T) {
	job := NewTranscriptionJob("j2", "https://cdn/audio")
	err := job.Advance(JobState("paused"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown state error = %v, want ErrValidation", err)
	}
}

func TestConversationTurnValidate(t *testing.T) {
	cases := []struct {
		name string
		turn ConversationTurn
		ok   bool
	}{
		{"valid user turn", ConversationTurn{UserID: "u1", ConversationID: "c1", Sender: SenderUser, Text: "hi"}, true},
		{"valid bot turn", ConversationTurn{UserID: "u1", ConversationID: "c1", Sender: SenderBot, Text: "hello"}, true},
		{"empty text", ConversationTurn{UserID: "u1", ConversationID: "c1", Sender: SenderUser, Text: ""}, false},
		{"whitespace text", ConversationTurn{UserID: "u1", ConversationID: "c1", Sender: SenderUser, Text: "   "}, false},
		{"bad sender", ConversationTurn{UserID: "u1", ConversationID: "c1", Sender: "system", Text: "hi"}, false},
		{"missing sender", ConversationTurn{UserID: "u1", ConversationID: "c1", Text: "hi"}, false},
		{"missing ids", ConversationTurn{Sender: SenderUser, Text: "hi"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.turn.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
		})
	}
}

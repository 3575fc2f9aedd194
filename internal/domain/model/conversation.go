package model

import (
	"fmt"
	"strings"
	"time"

	"chat-assistant-backend/internal/domain"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ConversationTurn is one message within a (user, conversation) log.
// Turns are append-only and immutable once stored.
type ConversationTurn struct {
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	Image          string    `json:"image,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func (t *ConversationTurn) Validate() error {
	if t.UserID == "" || t.ConversationID == "" {
		return fmt.Errorf("%w: userId and conversationId are required", domain.ErrValidation)
	}
	if t.Sender != SenderUser && t.Sender != SenderBot {
		return fmt.Errorf("%w: sender must be %q or %q", domain.ErrValidation, SenderUser, SenderBot)
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: text must not be empty", domain.ErrValidation)
	}
	return nil
}

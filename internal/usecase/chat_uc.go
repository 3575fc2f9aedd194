// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/adapter"
	"chat-assistant-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// SendMessage returns the assistant reply. When userID and
	// conversationID are set, both the user turn and the reply are
	// appended to the conversation log.
	SendMessage(ctx context.Context, userID, conversationID, message string) (string, error)

	// Suggestions returns follow-up prompts for the last assistant reply.
	Suggestions(ctx context.Context, reply string) ([]string, error)
}

// historyWindow bounds how many stored turns are replayed as model context.
const historyWindow = 15

type chatUC struct {
	turns      repository.ConversationRepository
	completion adapter.CompletionAdapter
}

func NewChatUseCase(turns repository.ConversationRepository, completion adapter.CompletionAdapter) *chatUC {
	return &chatUC{turns: turns, completion: completion}
}

func (c *chatUC) SendMessage(ctx context.Context, userID, conversationID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: no message provided", domain.ErrValidation)
	}
	if c.completion == nil {
		return "", fmt.Errorf("%w: no completion provider configured", domain.ErrProviderUnavailable)
	}

	persist := userID != "" && conversationID != ""

	msgs := []adapter.Message{{Role: "user", Content: message}}
	if persist {
		history, err := c.turns.List(ctx, userID, conversationID)
		if err != nil {
			return "", err
		}
		if len(history) > historyWindow {
			history = history[len(history)-historyWindow:]
		}
		msgs = make([]adapter.Message, 0, len(history)+1)
		for _, t := range history {
			role := "user"
			if t.Sender == model.SenderBot {
				role = "assistant"
			}
			msgs = append(msgs, adapter.Message{Role: role, Content: t.Text})
		}
		msgs = append(msgs, adapter.Message{Role: "user", Content: message})

		if err := c.turns.Append(ctx, &model.ConversationTurn{
			UserID:         userID,
			ConversationID: conversationID,
			Sender:         model.SenderUser,
			Text:           message,
		}); err != nil {
			return "", err
		}
	}

	reply, err := c.completion.Complete(ctx, msgs)
	if err != nil {
		return "", err
	}

	if persist {
		if err := c.turns.Append(ctx, &model.ConversationTurn{
			UserID:         userID,
			ConversationID: conversationID,
			Sender:         model.SenderBot,
			Text:           reply,
		}); err != nil {
			return "", err
		}
	}
	return reply, nil
}

func (c *chatUC) Suggestions(ctx context.Context, reply string) ([]string, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("%w: no reply provided", domain.ErrValidation)
	}
	if c.completion == nil {
		return nil, fmt.Errorf("%w: no completion provider configured", domain.ErrProviderUnavailable)
	}
	return c.completion.Suggest(ctx, reply)
}

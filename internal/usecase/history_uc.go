// File: internal/usecase/history_uc.go
package usecase

import (
	"context"
	"fmt"

	"chat-assistant-backend/internal/domain"
	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/repository"
)

var _ HistoryUseCase = (*historyUC)(nil)

type HistoryUseCase interface {
	Append(ctx context.Context, turn *model.ConversationTurn) error
	List(ctx context.Context, userID, conversationID string) ([]model.ConversationTurn, error)
	ClearConversation(ctx context.Context, userID, conversationID string) (int64, error)
	ClearAllForUser(ctx context.Context, userID string) (int64, error)
}

type historyUC struct {
	turns repository.ConversationRepository
}

func NewHistoryUseCase(turns repository.ConversationRepository) *historyUC {
	return &historyUC{turns: turns}
}

func (h *historyUC) Append(ctx context.Context, turn *model.ConversationTurn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	return h.turns.Append(ctx, turn)
}

func (h *historyUC) List(ctx context.Context, userID, conversationID string) ([]model.ConversationTurn, error) {
	if userID == "" || conversationID == "" {
		return nil, fmt.Errorf("%w: userId and conversationId are required", domain.ErrValidation)
	}
	return h.turns.List(ctx, userID, conversationID)
}

func (h *historyUC) ClearConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	if userID == "" || conversationID == "" {
		return 0, fmt.Errorf("%w: userId and conversationId are required", domain.ErrValidation)
	}
	return h.turns.ClearConversation(ctx, userID, conversationID)
}

func (h *historyUC) ClearAllForUser(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	return h.turns.ClearAllForUser(ctx, userID)
}

package repository

import (
	"context"

	"chat-assistant-backend/internal/domain/model"
)

// ConversationRepository is the durable, append-only log of conversation
// turns. There is no single-turn delete; turns are removed only in bulk.
type ConversationRepository interface {
	Append(ctx context.Context, turn *model.ConversationTurn) error

	// List returns all turns of one conversation ordered by timestamp
	// ascending. A conversation with no turns yields an empty slice.
	List(ctx context.Context, userID, conversationID string) ([]model.ConversationTurn, error)

	// ClearConversation deletes every turn of one conversation and
	// returns the number of turns removed.
	ClearConversation(ctx context.Context, userID, conversationID string) (int64, error)

	// ClearAllForUser deletes every turn across all of the user's
	// conversations and returns the number of turns removed.
	ClearAllForUser(ctx context.Context, userID string) (int64, error)
}

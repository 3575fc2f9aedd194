// File: internal/infra/db/postgres/conversation_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/domain/ports/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo persists conversation turns. Turns are append-only;
// ordering within a conversation relies on created_at set at insert time.
type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

func (r *ConversationRepo) Append(ctx context.Context, turn *model.ConversationTurn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	const q = `
INSERT INTO conversation_turns (user_id, conversation_id, sender, text, image, created_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),$6);`
	if _, err := r.pool.Exec(ctx, q,
		turn.UserID, turn.ConversationID, string(turn.Sender), turn.Text, turn.Image, turn.Timestamp,
	); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (r *ConversationRepo) List(ctx context.Context, userID, conversationID string) ([]model.ConversationTurn, error) {
	const q = `
SELECT user_id, conversation_id, sender, text, image, created_at
FROM conversation_turns
WHERE user_id=$1 AND conversation_id=$2
ORDER BY created_at ASC, id ASC;`
	rows, err := r.pool.Query(ctx, q, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	turns := make([]model.ConversationTurn, 0, 16)
	for rows.Next() {
		var t model.ConversationTurn
		var sender string
		var image sql.NullString
		if err := rows.Scan(&t.UserID, &t.ConversationID, &sender, &t.Text, &image, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Sender = model.Sender(sender)
		t.Image = image.String
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	return turns, nil
}

func (r *ConversationRepo) ClearConversation(ctx context.Context, userID, conversationID string) (int64, error) {
	const q = `DELETE FROM conversation_turns WHERE user_id=$1 AND conversation_id=$2;`
	tag, err := r.pool.Exec(ctx, q, userID, conversationID)
	if err != nil {
		return 0, fmt.Errorf("clear conversation: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ConversationRepo) ClearAllForUser(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM conversation_turns WHERE user_id=$1;`
	tag, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return 0, fmt.Errorf("clear all history: %w", err)
	}
	return tag.RowsAffected(), nil
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/pkg/logger"
)

type messageRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// Create creates a new message. created_at comes from clock_timestamp() so
// messages inserted under the request row lock get increasing times.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	sql, args, err := r.sb.Insert("messages").
		Columns("request_id", "sender_id", "content", "created_at").
		Values(message.RequestID, message.SenderID, message.Content, squirrel.Expr("clock_timestamp()")).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create message SQL")
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&message.ID, &message.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("requestID", message.RequestID).Msg("Error executing create message query")
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// ListByRequest returns a request's messages in thread order
func (r *messageRepository) ListByRequest(ctx context.Context, requestID, afterID int64) ([]models.Message, error) {
	q := r.sb.Select("id", "request_id", "sender_id", "content", "created_at").
		From("messages").
		Where(squirrel.Eq{"request_id": requestID})
	if afterID > 0 {
		q = q.Where(squirrel.Gt{"id": afterID})
	}

	sql, args, err := q.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", requestID).Msg("Error querying messages")
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.RequestID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

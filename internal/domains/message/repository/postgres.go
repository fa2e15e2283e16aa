package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poultry-market-backend/internal/domains/message/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, listing_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.ListingID, msg.Content, msg.Read, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *postgresRepository) Conversations(ctx context.Context, userID uuid.UUID, limit int) ([]model.ConversationSummary, error) {
	query := `
		WITH mine AS (
			SELECT
				id,
				listing_id,
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id,
				content,
				created_at,
				(receiver_id = $1 AND NOT is_read) AS unread
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		),
		threads AS (
			SELECT DISTINCT ON (listing_id, other_id)
				listing_id,
				other_id,
				content,
				created_at,
				COUNT(*) FILTER (WHERE unread) OVER (PARTITION BY listing_id, other_id) AS unread_count
			FROM mine
			ORDER BY listing_id, other_id, created_at DESC, id DESC
		)
		SELECT listing_id, other_id, content, created_at, unread_count
		FROM threads
		ORDER BY created_at DESC, listing_id ASC, other_id ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ConversationSummary, error) {
		var s model.ConversationSummary
		err := row.Scan(&s.ListingID, &s.OtherUserID, &s.LastMessage, &s.LastMessageAt, &s.UnreadCount)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversations: %w", err)
	}
	return summaries, nil
}

func (r *postgresRepository) Thread(
	ctx context.Context,
	userID, otherID, listingID uuid.UUID,
	limit, offset int,
) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, listing_id, content, is_read, created_at
		FROM messages
		WHERE listing_id = $3
			AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		ORDER BY created_at ASC, id ASC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, userID, otherID, listingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Message, error) {
		m := &model.Message{}
		err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.ListingID, &m.Content, &m.Read, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan thread: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, readerID, otherID, listingID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_read = true
		WHERE receiver_id = $1 AND sender_id = $2 AND listing_id = $3 AND NOT is_read
	`, readerID, otherID, listingID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) CountByParticipants(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT u.id, COUNT(m.id)
		FROM unnest($1::uuid[]) AS u(id)
		JOIN messages m ON m.sender_id = u.id OR m.receiver_id = u.id
		GROUP BY u.id
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			count int64
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan message count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

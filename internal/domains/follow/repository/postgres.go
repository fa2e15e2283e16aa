package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, follow *model.Follow) (bool, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (bool, error) {
		tag, err := tx.Exec(ctx, `
			INSERT INTO follows (follower_id, followee_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (follower_id, followee_id) DO NOTHING
		`, follow.FollowerID, follow.FolloweeID, follow.CreatedAt)
		if err != nil {
			return false, fmt.Errorf("failed to insert follow: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}

		if err := adjustCounters(ctx, tx, follow.FollowerID, follow.FolloweeID, 1); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (r *postgresRepository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (bool, error) {
		tag, err := tx.Exec(ctx,
			`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
			followerID, followeeID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to delete follow: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}

		if err := adjustCounters(ctx, tx, followerID, followeeID, -1); err != nil {
			return false, err
		}
		return true, nil
	})
}

const upsertCounterQuery = `
	INSERT INTO user_follow_stats (user_id, followers_count, following_count, updated_at)
	VALUES ($1, GREATEST($2::bigint, 0), GREATEST($3::bigint, 0), NOW())
	ON CONFLICT (user_id) DO UPDATE SET
		followers_count = GREATEST(user_follow_stats.followers_count + $2::bigint, 0),
		following_count = GREATEST(user_follow_stats.following_count + $3::bigint, 0),
		updated_at = NOW()
`

// adjustCounters updates both counter rows in uuid order so two transactions
// touching the same pair of users always lock them in the same order.
func adjustCounters(ctx context.Context, tx pgx.Tx, followerID, followeeID uuid.UUID, delta int64) error {
	type change struct {
		userID               uuid.UUID
		followers, following int64
	}
	changes := []change{
		{userID: followerID, following: delta},
		{userID: followeeID, followers: delta},
	}
	if bytes.Compare(followeeID[:], followerID[:]) < 0 {
		changes[0], changes[1] = changes[1], changes[0]
	}

	for _, ch := range changes {
		if _, err := tx.Exec(ctx, upsertCounterQuery, ch.userID, ch.followers, ch.following); err != nil {
			return fmt.Errorf("failed to update follow counters: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at DESC`,
		followerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get followees: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan followees: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Follow, error) {
	return r.listEdges(ctx, `
		SELECT follower_id, followee_id, created_at
		FROM follows
		WHERE followee_id = $1
		ORDER BY created_at DESC, follower_id ASC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *postgresRepository) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Follow, error) {
	return r.listEdges(ctx, `
		SELECT follower_id, followee_id, created_at
		FROM follows
		WHERE follower_id = $1
		ORDER BY created_at DESC, followee_id ASC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *postgresRepository) listEdges(ctx context.Context, query string, args ...interface{}) ([]*model.Follow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	follows := make([]*model.Follow, 0)
	for rows.Next() {
		f := &model.Follow{}
		if err := rows.Scan(&f.FollowerID, &f.FolloweeID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		follows = append(follows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate follows: %w", err)
	}
	return follows, nil
}

func (r *postgresRepository) Counts(ctx context.Context, userID uuid.UUID) (*model.Stats, error) {
	stats := &model.Stats{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`SELECT followers_count, following_count FROM user_follow_stats WHERE user_id = $1`,
		userID,
	).Scan(&stats.FollowersCount, &stats.FollowingCount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get follow stats: %w", err)
	}
	return stats, nil
}

// ReconcileCounters rewrites only the rows whose stored counters differ from
// the edge table.
func (r *postgresRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	query := `
		WITH actual AS (
			SELECT user_id,
				SUM(followers)::bigint AS followers_count,
				SUM(following)::bigint AS following_count
			FROM (
				SELECT followee_id AS user_id, 1 AS followers, 0 AS following FROM follows
				UNION ALL
				SELECT follower_id, 0, 1 FROM follows
				UNION ALL
				SELECT user_id, 0, 0 FROM user_follow_stats
			) edges
			GROUP BY user_id
		)
		INSERT INTO user_follow_stats (user_id, followers_count, following_count, updated_at)
		SELECT user_id, followers_count, following_count, NOW() FROM actual
		ON CONFLICT (user_id) DO UPDATE SET
			followers_count = EXCLUDED.followers_count,
			following_count = EXCLUDED.following_count,
			updated_at = NOW()
		WHERE user_follow_stats.followers_count <> EXCLUDED.followers_count
			OR user_follow_stats.following_count <> EXCLUDED.following_count
	`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile follow counters: %w", err)
	}
	return tag.RowsAffected(), nil
}

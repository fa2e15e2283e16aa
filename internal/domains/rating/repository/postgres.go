package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"poultry-market-backend/internal/domains/rating/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, rating *model.Rating) error {
	query := `
		INSERT INTO seller_ratings (id, seller_id, rater_id, listing_id, stars, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		rating.ID,
		rating.SellerID,
		rating.RaterID,
		rating.ListingID,
		rating.Stars,
		rating.Comment,
		rating.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyRated
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

func (r *postgresRepository) Aggregates(
	ctx context.Context,
	sellerIDs []uuid.UUID,
) (map[uuid.UUID]*model.SellerRatingAggregate, error) {
	result := make(map[uuid.UUID]*model.SellerRatingAggregate, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT seller_id, stars, COUNT(*) AS count
		FROM seller_ratings
		WHERE seller_id = ANY($1)
		GROUP BY seller_id, stars
	`

	rows, err := r.pool.Query(ctx, query, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating breakdown: %w", err)
	}
	defer rows.Close()

	breakdowns := make(map[uuid.UUID]map[int]int, len(sellerIDs))
	for rows.Next() {
		var (
			sellerID     uuid.UUID
			stars, count int
		)
		if err := rows.Scan(&sellerID, &stars, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating breakdown: %w", err)
		}
		if breakdowns[sellerID] == nil {
			breakdowns[sellerID] = make(map[int]int)
		}
		breakdowns[sellerID][stars] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating breakdown: %w", err)
	}

	for _, id := range sellerIDs {
		result[id] = model.NewAggregate(id, breakdowns[id])
	}
	return result, nil
}

func (r *postgresRepository) ListBySeller(
	ctx context.Context,
	sellerID uuid.UUID,
	limit, offset int,
) ([]*model.Rating, error) {
	query := `
		SELECT id, seller_id, rater_id, listing_id, stars, comment, created_at
		FROM seller_ratings
		WHERE seller_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]*model.Rating, 0, limit)
	for rows.Next() {
		rt := &model.Rating{}
		if err := rows.Scan(
			&rt.ID,
			&rt.SellerID,
			&rt.RaterID,
			&rt.ListingID,
			&rt.Stars,
			&rt.Comment,
			&rt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

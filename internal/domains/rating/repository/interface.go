package repository

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/rating/model"
)

type Repository interface {
	// Create fails with model.ErrAlreadyRated when the rater already rated
	// this seller for the same listing.
	Create(ctx context.Context, rating *model.Rating) error

	// Aggregates returns one aggregate per requested seller, including
	// sellers without ratings.
	Aggregates(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]*model.SellerRatingAggregate, error)

	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*model.Rating, error)
}

package service

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/rating/model"
)

type ServiceInterface interface {
	CreateRating(ctx context.Context, raterID uuid.UUID, req model.CreateRatingRequest) (*model.Rating, error)
	GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*model.SellerRatingAggregate, error)
	ListSellerRatings(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*model.Rating, error)

	// AggregatesFor is the batch lookup used to annotate listings.
	AggregatesFor(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]*model.SellerRatingAggregate, error)
}

// UserDirectory answers whether a seller exists.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

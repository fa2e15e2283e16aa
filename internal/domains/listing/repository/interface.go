package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/listing/model"
	ratingModel "poultry-market-backend/internal/domains/rating/model"
	searchModel "poultry-market-backend/internal/domains/search/model"
)

// SellerListingOptions narrows ListBySeller.
type SellerListingOptions struct {
	ActiveOnly bool
	// Since drops listings created before this instant.
	Since *time.Time
	Limit int
}

// Repository is the listing store.
type Repository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	// GetByIDs returns the listings that exist, active or not, keyed by id.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Listing, error)
	// ListBySeller returns listings newest first (created_at DESC, id ASC).
	ListBySeller(ctx context.Context, sellerID uuid.UUID, opts SellerListingOptions) ([]*model.Listing, error)
	// Search returns up to page.Limit listings matching filter in filter order.
	Search(ctx context.Context, filter searchModel.Filter, page searchModel.Page, now time.Time) ([]*model.Listing, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	CountActiveByCategory(ctx context.Context) ([]model.ActiveCount, error)
	// CountActiveBySellers counts active listings per seller. Sellers with
	// none are absent from the result.
	CountActiveBySellers(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// RatingSource supplies seller rating aggregates for rating filters and sorts.
type RatingSource interface {
	AggregatesFor(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]*ratingModel.SellerRatingAggregate, error)
}

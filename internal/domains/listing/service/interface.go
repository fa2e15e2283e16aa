package service

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/listing/model"
)

type ServiceInterface interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, req model.CreateListingRequest) (*model.AnnotatedListing, error)
	// GetListing returns active listings only.
	GetListing(ctx context.Context, id uuid.UUID) (*model.AnnotatedListing, error)
	ListSellerListings(ctx context.Context, sellerID uuid.UUID, limit int) ([]model.AnnotatedListing, error)
	// DeactivateListing soft-deletes a listing. Only its seller or an admin may do so.
	DeactivateListing(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) error
	AdminStats(ctx context.Context) (*model.AdminStats, error)
}

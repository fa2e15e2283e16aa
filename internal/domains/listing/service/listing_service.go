package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/listing/repository"
	"poultry-market-backend/internal/infrastructure/messaging"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/cache"
	"poultry-market-backend/pkg/logger"
)

const maxSellerListings = 100

// ListingEvent is published on listing lifecycle changes.
type ListingEvent struct {
	ListingID  uuid.UUID      `json:"listing_id"`
	SellerID   uuid.UUID      `json:"seller_id"`
	Category   model.Category `json:"category"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type listingService struct {
	repo      repository.Repository
	annotator *Annotator
	cache     cache.Cache
	publisher messaging.Publisher
}

// NewListingService wires the listing service. cache may be nil.
func NewListingService(
	repo repository.Repository,
	annotator *Annotator,
	c cache.Cache,
	publisher messaging.Publisher,
) ServiceInterface {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &listingService{repo: repo, annotator: annotator, cache: c, publisher: publisher}
}

func (s *listingService) CreateListing(
	ctx context.Context,
	sellerID uuid.UUID,
	req model.CreateListingRequest,
) (*model.AnnotatedListing, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidListingError(err)
	}

	now := s.annotator.Now()
	listing := req.ToListing(sellerID, now)

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}

	s.invalidateSearch(ctx)
	s.publish(ctx, shared.EventListingCreated, listing, now)

	logger.Info("listing created", map[string]interface{}{
		"listing_id": listing.ID.String(),
		"seller_id":  sellerID.String(),
		"category":   listing.Category.String(),
	})

	annotated, err := s.annotator.AnnotateAll(ctx, []*model.Listing{listing}, now)
	if err != nil {
		return nil, err
	}
	return &annotated[0], nil
}

func (s *listingService) GetListing(ctx context.Context, id uuid.UUID) (*model.AnnotatedListing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			return nil, model.NewListingNotFoundError()
		}
		return nil, model.NewStoreUnavailableError(err)
	}
	if !listing.IsActive {
		return nil, model.NewListingNotFoundError()
	}

	annotated, err := s.annotator.AnnotateAll(ctx, []*model.Listing{listing}, s.annotator.Now())
	if err != nil {
		return nil, err
	}
	return &annotated[0], nil
}

func (s *listingService) ListSellerListings(
	ctx context.Context,
	sellerID uuid.UUID,
	limit int,
) ([]model.AnnotatedListing, error) {
	if limit <= 0 || limit > maxSellerListings {
		limit = maxSellerListings
	}

	listings, err := s.repo.ListBySeller(ctx, sellerID, repository.SellerListingOptions{
		ActiveOnly: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}

	return s.annotator.AnnotateAll(ctx, listings, s.annotator.Now())
}

func (s *listingService) DeactivateListing(
	ctx context.Context,
	actorID uuid.UUID,
	isAdmin bool,
	id uuid.UUID,
) error {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			return model.NewListingNotFoundError()
		}
		return model.NewStoreUnavailableError(err)
	}

	if !isAdmin && listing.SellerID != actorID {
		return model.NewNotOwnerError()
	}

	// Already inactive: nothing to do.
	if !listing.IsActive {
		return nil
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			return model.NewListingNotFoundError()
		}
		return model.NewStoreUnavailableError(err)
	}

	s.invalidateSearch(ctx)
	s.publish(ctx, shared.EventListingDeactivated, listing, s.annotator.Now())
	return nil
}

func (s *listingService) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	counts, err := s.repo.CountActiveByCategory(ctx)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}

	stats := &model.AdminStats{ActiveByCategory: counts}
	if stats.ActiveByCategory == nil {
		stats.ActiveByCategory = []model.ActiveCount{}
	}
	for _, c := range counts {
		stats.TotalActive += c.Count
	}
	return stats, nil
}

func (s *listingService) invalidateSearch(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "search:*"); err != nil {
		logger.Warn("search cache invalidation failed", err)
	}
}

func (s *listingService) publish(ctx context.Context, subject string, l *model.Listing, at time.Time) {
	event := ListingEvent{ListingID: l.ID, SellerID: l.SellerID, Category: l.Category, OccurredAt: at}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		logger.Warn("failed to publish "+subject, err)
	}
}

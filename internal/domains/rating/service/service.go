package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/rating/model"
	"poultry-market-backend/internal/domains/rating/repository"
	userModel "poultry-market-backend/internal/domains/user/model"
	"poultry-market-backend/internal/infrastructure/messaging"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/cache"
	"poultry-market-backend/pkg/logger"
)

const statsCacheTTL = 10 * time.Minute

type ratingService struct {
	repo      repository.Repository
	users     UserDirectory
	cache     cache.Cache
	publisher messaging.Publisher
}

// NewRatingService wires the rating service. cache may be nil.
func NewRatingService(
	repo repository.Repository,
	users UserDirectory,
	c cache.Cache,
	publisher messaging.Publisher,
) ServiceInterface {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &ratingService{repo: repo, users: users, cache: c, publisher: publisher}
}

func statsCacheKey(sellerID uuid.UUID) string {
	return "rating:stats:" + sellerID.String()
}

func (s *ratingService) CreateRating(
	ctx context.Context,
	raterID uuid.UUID,
	req model.CreateRatingRequest,
) (*model.Rating, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRatingError(err)
	}
	if raterID == req.SellerID {
		return nil, model.NewSelfRatingError()
	}

	exists, err := s.users.Exists(ctx, req.SellerID)
	if err != nil {
		return nil, userModel.NewDirectoryUnavailableError(err)
	}
	if !exists {
		return nil, userModel.NewUserNotFoundError()
	}

	rating := &model.Rating{
		ID:        uuid.New(),
		SellerID:  req.SellerID,
		RaterID:   raterID,
		ListingID: req.ListingID,
		Stars:     req.Stars,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, rating); err != nil {
		if errors.Is(err, model.ErrAlreadyRated) {
			return nil, model.NewAlreadyRatedError()
		}
		return nil, model.NewRatingsUnavailableError(err)
	}

	s.invalidate(ctx, rating.SellerID)

	if err := s.publisher.Publish(ctx, shared.EventRatingCreated, rating); err != nil {
		logger.Warn("failed to publish rating event", err)
	}

	return rating, nil
}

func (s *ratingService) GetSellerStats(
	ctx context.Context,
	sellerID uuid.UUID,
) (*model.SellerRatingAggregate, error) {
	key := statsCacheKey(sellerID)

	if s.cache != nil {
		var cached model.SellerRatingAggregate
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("rating stats cache read failed", err)
		} else if found {
			return &cached, nil
		}
	}

	aggs, err := s.AggregatesFor(ctx, []uuid.UUID{sellerID})
	if err != nil {
		return nil, err
	}
	agg := aggs[sellerID]
	if agg == nil {
		agg = model.EmptyAggregate(sellerID)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, agg, statsCacheTTL); err != nil {
			logger.Warn("rating stats cache write failed", err)
		}
	}
	return agg, nil
}

func (s *ratingService) ListSellerRatings(
	ctx context.Context,
	sellerID uuid.UUID,
	limit, offset int,
) ([]*model.Rating, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ratings, err := s.repo.ListBySeller(ctx, sellerID, limit, offset)
	if err != nil {
		return nil, model.NewRatingsUnavailableError(err)
	}
	return ratings, nil
}

func (s *ratingService) AggregatesFor(
	ctx context.Context,
	sellerIDs []uuid.UUID,
) (map[uuid.UUID]*model.SellerRatingAggregate, error) {
	aggs, err := s.repo.Aggregates(ctx, sellerIDs)
	if err != nil {
		return nil, model.NewRatingsUnavailableError(fmt.Errorf("aggregate %d sellers: %w", len(sellerIDs), err))
	}
	return aggs, nil
}

func (s *ratingService) invalidate(ctx context.Context, sellerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey(sellerID)); err != nil {
		logger.Warn("rating stats cache invalidation failed", err)
	}
	// Search pages embed seller ratings and filter by them.
	if err := s.cache.DeletePattern(ctx, "search:*"); err != nil {
		logger.Warn("search cache invalidation failed", err)
	}
}

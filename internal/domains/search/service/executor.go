package service

import (
	"context"
	"time"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	listingRepo "poultry-market-backend/internal/domains/listing/repository"
	listingService "poultry-market-backend/internal/domains/listing/service"
	"poultry-market-backend/internal/domains/search/model"
	"poultry-market-backend/internal/shared/apperror"
	"poultry-market-backend/pkg/cache"
	"poultry-market-backend/pkg/logger"
)

// Result is one page of annotated listings. There is no exact total;
// HasMore reports whether another page exists.
type Result struct {
	Items   []listingModel.AnnotatedListing `json:"items"`
	Limit   int                             `json:"limit"`
	Offset  int                             `json:"offset"`
	HasMore bool                            `json:"has_more"`
	// RadiusMiles echoes the requested radius. No geocoder is configured,
	// so location matching is by name only.
	RadiusMiles       *float64 `json:"radius_miles,omitempty"`
	RadiusApproximate bool     `json:"radius_approximate,omitempty"`
}

type ServiceInterface interface {
	Search(ctx context.Context, filter model.Filter, page model.Page) (*Result, error)
	// AdminSearch also returns deactivated listings.
	AdminSearch(ctx context.Context, filter model.Filter, page model.Page) (*Result, error)
}

type Executor struct {
	store     listingRepo.Repository
	annotator *listingService.Annotator
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewExecutor wires search. A nil cache or zero ttl disables result caching.
func NewExecutor(
	store listingRepo.Repository,
	annotator *listingService.Annotator,
	c cache.Cache,
	cacheTTL time.Duration,
) *Executor {
	return &Executor{store: store, annotator: annotator, cache: c, cacheTTL: cacheTTL}
}

var _ ServiceInterface = (*Executor)(nil)

func (e *Executor) Search(ctx context.Context, filter model.Filter, page model.Page) (*Result, error) {
	useCache := e.cache != nil && e.cacheTTL > 0
	key := filter.CacheKey(page)

	if useCache {
		var cached Result
		found, err := e.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("search cache read failed", err)
		} else if found {
			return &cached, nil
		}
	}

	result, err := e.execute(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := e.cache.Set(ctx, key, result, e.cacheTTL); err != nil {
			logger.Warn("search cache write failed", err)
		}
	}
	return result, nil
}

func (e *Executor) AdminSearch(ctx context.Context, filter model.Filter, page model.Page) (*Result, error) {
	return e.execute(ctx, filter.WithInactive(), page)
}

func (e *Executor) execute(ctx context.Context, filter model.Filter, page model.Page) (*Result, error) {
	now := e.annotator.Now()

	// One extra row tells whether another page exists.
	lookahead := model.Page{Limit: page.Limit + 1, Offset: page.Offset}
	listings, err := e.store.Search(ctx, filter, lookahead, now)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperror.EnsureUnavailable(err, listingModel.ErrCodeStoreUnavailable, "Listing store unavailable")
	}

	hasMore := len(listings) > page.Limit
	if hasMore {
		listings = listings[:page.Limit]
	}

	items, err := e.annotator.AnnotateAll(ctx, listings, now)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Items:       items,
		Limit:       page.Limit,
		Offset:      page.Offset,
		HasMore:     hasMore,
		RadiusMiles: filter.RadiusMiles(),
	}
	result.RadiusApproximate = result.RadiusMiles != nil
	return result, nil
}

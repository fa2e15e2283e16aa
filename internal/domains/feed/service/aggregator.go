package service

import (
	"bytes"
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"poultry-market-backend/internal/config"
	"poultry-market-backend/internal/domains/feed/model"
	listingModel "poultry-market-backend/internal/domains/listing/model"
	listingRepo "poultry-market-backend/internal/domains/listing/repository"
	listingService "poultry-market-backend/internal/domains/listing/service"
	"poultry-market-backend/internal/shared/apperror"
)

// FolloweeSource resolves who a user follows.
type FolloweeSource interface {
	FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

// SellerListings is the part of the listing store the feed reads.
type SellerListings interface {
	ListBySeller(ctx context.Context, sellerID uuid.UUID, opts listingRepo.SellerListingOptions) ([]*listingModel.Listing, error)
}

type ServiceInterface interface {
	Following(ctx context.Context, userID uuid.UUID) (*model.Feed, error)
}

type Aggregator struct {
	follows   FolloweeSource
	listings  SellerListings
	annotator *listingService.Annotator
	cfg       config.FeedConfig
}

func NewAggregator(
	follows FolloweeSource,
	listings SellerListings,
	annotator *listingService.Annotator,
	cfg config.FeedConfig,
) *Aggregator {
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 2 * time.Second
	}
	return &Aggregator{follows: follows, listings: listings, annotator: annotator, cfg: cfg}
}

var _ ServiceInterface = (*Aggregator)(nil)

// Following fans out one fetch per followee, merges the results newest
// first and annotates the surviving page. A rating outage degrades the
// page to no_ratings instead of failing it.
func (a *Aggregator) Following(ctx context.Context, userID uuid.UUID) (*model.Feed, error) {
	followees, err := a.follows.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, apperror.EnsureUnavailable(err, model.ErrCodeFeedUnavailable, "Feed temporarily unavailable")
	}

	feed := &model.Feed{Items: []listingModel.AnnotatedListing{}, Sellers: len(followees)}
	if len(followees) == 0 {
		return feed, nil
	}

	now := a.annotator.Now()
	opts := listingRepo.SellerListingOptions{ActiveOnly: true, Limit: a.cfg.PerSellerLimit}
	if window := a.cfg.FeedWindow(); window > 0 {
		since := now.Add(-window)
		opts.Since = &since
	}

	results := make([][]*listingModel.Listing, len(followees))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, sellerID := range followees {
		i, sellerID := i, sellerID
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, a.cfg.FetchTimeout)
			defer cancel()

			listings, err := a.listings.ListBySeller(fctx, sellerID, opts)
			if err != nil {
				// The caller went away; stop the whole fan-out.
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				log.Warn().
					Err(err).
					Str("user_id", userID.String()).
					Str("seller_id", sellerID.String()).
					Msg("feed fetch failed, seller omitted")
				return nil
			}
			results[i] = listings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeNewestFirst(results, a.cfg.Limit)

	items, err := a.annotator.AnnotateAll(ctx, merged, now)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Int("items", len(merged)).
			Msg("feed ratings unavailable, serving unrated")
		items = a.annotator.AnnotateUnrated(merged, now)
		feed.RatingsUnavailable = true
	}

	feed.Items = items
	feed.FailedSellers = int(failed.Load())
	feed.Partial = feed.FailedSellers > 0 || feed.RatingsUnavailable
	return feed, nil
}

// mergeNewestFirst orders by created_at DESC then id ASC and keeps limit items.
func mergeNewestFirst(perSeller [][]*listingModel.Listing, limit int) []*listingModel.Listing {
	total := 0
	for _, ls := range perSeller {
		total += len(ls)
	}

	merged := make([]*listingModel.Listing, 0, total)
	for _, ls := range perSeller {
		merged = append(merged, ls...)
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/listing/repository"
	ratingModel "poultry-market-backend/internal/domains/rating/model"
	"poultry-market-backend/internal/shared/apperror"
)

// Freshness buckets the age of an egg listing. Listings without a laid date
// have no freshness.
func Freshness(l *model.Listing, now time.Time) *model.Freshness {
	laid := l.LaidDate()
	if laid == nil {
		return nil
	}

	days := model.DaysBetween(*laid, now)
	switch {
	case days <= 0:
		return &model.Freshness{Kind: model.FreshToday, Days: 0, Label: "Fresh Today!"}
	case days == 1:
		return &model.Freshness{Kind: model.FreshYesterday, Days: 1, Label: "Yesterday"}
	case days <= 7:
		return &model.Freshness{Kind: model.FreshDays, Days: days, Label: fmt.Sprintf("%d days ago", days)}
	}

	weeks := days / 7
	label := "1 week ago"
	if weeks > 1 {
		label = fmt.Sprintf("%d weeks ago", weeks)
	}
	return &model.Freshness{Kind: model.FreshWeeks, Days: days, Label: label}
}

// SellerRating summarises agg for display. A nil aggregate means no ratings.
func SellerRating(agg *ratingModel.SellerRatingAggregate) model.SellerRating {
	if !agg.HasRatings() {
		return model.SellerRating{NoRatings: true}
	}
	return model.SellerRating{Average: agg.AverageRating, Count: agg.TotalRatings}
}

// Annotate decorates a listing for display. It never mutates l.
func Annotate(l *model.Listing, agg *ratingModel.SellerRatingAggregate, now time.Time) model.AnnotatedListing {
	return model.AnnotatedListing{
		ListingResponse: l.ToResponse(),
		Freshness:       Freshness(l, now),
		SellerRating:    SellerRating(agg),
	}
}

// Annotator annotates batches with one rating lookup per batch.
type Annotator struct {
	ratings repository.RatingSource
	clock   func() time.Time
}

func NewAnnotator(ratings repository.RatingSource, clock func() time.Time) *Annotator {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Annotator{ratings: ratings, clock: clock}
}

func (a *Annotator) Now() time.Time {
	return a.clock()
}

// AnnotateAll keeps the order of listings. now is shared by the whole batch.
func (a *Annotator) AnnotateAll(
	ctx context.Context,
	listings []*model.Listing,
	now time.Time,
) ([]model.AnnotatedListing, error) {
	out := make([]model.AnnotatedListing, 0, len(listings))
	if len(listings) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(listings))
	sellers := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.SellerID]; !ok {
			seen[l.SellerID] = struct{}{}
			sellers = append(sellers, l.SellerID)
		}
	}

	aggs, err := a.ratings.AggregatesFor(ctx, sellers)
	if err != nil {
		return nil, apperror.EnsureUnavailable(err, ratingModel.ErrCodeRatingsUnavailable, "Rating service unavailable")
	}

	for _, l := range listings {
		out = append(out, Annotate(l, aggs[l.SellerID], now))
	}
	return out, nil
}

// AnnotateUnrated annotates without a rating lookup. Every listing is
// marked no_ratings.
func (a *Annotator) AnnotateUnrated(listings []*model.Listing, now time.Time) []model.AnnotatedListing {
	out := make([]model.AnnotatedListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, Annotate(l, nil, now))
	}
	return out
}

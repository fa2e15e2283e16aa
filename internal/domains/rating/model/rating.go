package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinStars = 1
	MaxStars = 5
)

// Rating is a buyer's star rating of a seller, optionally tied to a listing.
type Rating struct {
	ID        uuid.UUID  `json:"id"`
	SellerID  uuid.UUID  `json:"seller_id"`
	RaterID   uuid.UUID  `json:"rater_id"`
	ListingID *uuid.UUID `json:"listing_id,omitempty"`
	Stars     int        `json:"stars"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SellerRatingAggregate summarises every rating a seller has received.
// AverageRating is rounded to one decimal; Breakdown always holds keys 1..5.
type SellerRatingAggregate struct {
	SellerID      uuid.UUID   `json:"seller_id"`
	AverageRating float64     `json:"average_rating"`
	TotalRatings  int         `json:"total_ratings"`
	Breakdown     map[int]int `json:"rating_breakdown"`
}

// HasRatings is false for sellers nobody has rated yet.
func (a *SellerRatingAggregate) HasRatings() bool {
	return a != nil && a.TotalRatings > 0
}

func EmptyBreakdown() map[int]int {
	breakdown := make(map[int]int, MaxStars)
	for i := MinStars; i <= MaxStars; i++ {
		breakdown[i] = 0
	}
	return breakdown
}

func EmptyAggregate(sellerID uuid.UUID) *SellerRatingAggregate {
	return &SellerRatingAggregate{SellerID: sellerID, Breakdown: EmptyBreakdown()}
}

// NewAggregate derives count and average from a per-star breakdown.
// The average is rounded half away from zero to one decimal.
func NewAggregate(sellerID uuid.UUID, breakdown map[int]int) *SellerRatingAggregate {
	agg := EmptyAggregate(sellerID)

	var sum int64
	for stars, count := range breakdown {
		if stars < MinStars || stars > MaxStars || count <= 0 {
			continue
		}
		agg.Breakdown[stars] = count
		agg.TotalRatings += count
		sum += int64(stars * count)
	}

	if agg.TotalRatings > 0 {
		avg := decimal.NewFromInt(sum).
			DivRound(decimal.NewFromInt(int64(agg.TotalRatings)), 4).
			Round(1)
		agg.AverageRating = avg.InexactFloat64()
	}
	return agg
}

package model

import listingModel "poultry-market-backend/internal/domains/listing/model"

// Feed is the merged, annotated listing stream of everyone a user follows.
// Partial is set when at least one followee's listings could not be fetched
// (those sellers are omitted and counted in FailedSellers) or when seller
// ratings could not be loaded and every item is marked no_ratings.
type Feed struct {
	Items              []listingModel.AnnotatedListing `json:"items"`
	Sellers            int                             `json:"sellers"`
	Partial            bool                            `json:"partial"`
	FailedSellers      int                             `json:"failed_sellers,omitempty"`
	RatingsUnavailable bool                            `json:"ratings_unavailable,omitempty"`
}

const ErrCodeFeedUnavailable = "FEED_UNAVAILABLE"

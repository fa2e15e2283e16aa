package model

import (
	"time"
)

// FreshnessKind is the machine-readable freshness bucket.
type FreshnessKind string

const (
	FreshToday     FreshnessKind = "today"
	FreshYesterday FreshnessKind = "yesterday"
	FreshDays      FreshnessKind = "days"
	FreshWeeks     FreshnessKind = "weeks"
)

// Freshness describes how long ago eggs were laid.
type Freshness struct {
	Kind  FreshnessKind `json:"kind"`
	Days  int           `json:"days"`
	Label string        `json:"label"`
}

// SellerRating is the rating summary shown next to a listing.
type SellerRating struct {
	Average   float64 `json:"average,omitempty"`
	Count     int     `json:"count,omitempty"`
	NoRatings bool    `json:"no_ratings,omitempty"`
}

// AnnotatedListing is a listing as returned by search and feeds.
type AnnotatedListing struct {
	ListingResponse
	Freshness    *Freshness   `json:"freshness,omitempty"`
	SellerRating SellerRating `json:"seller_rating"`
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts UTC calendar days from from to to. It is negative when
// from is on a later day.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)) / (24 * time.Hour))
}

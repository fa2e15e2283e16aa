package model

import (
	listingModel "poultry-market-backend/internal/domains/listing/model"
)

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortPrice     SortField = "price"
	SortRating    SortField = "rating"
	SortTitle     SortField = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Sort struct {
	Field SortField
	Order SortOrder
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: SortCreatedAt, Order: SortDesc}

func ParseSortField(raw string) (SortField, bool) {
	switch f := SortField(raw); f {
	case SortCreatedAt, SortPrice, SortRating, SortTitle:
		return f, true
	}
	return "", false
}

func ParseSortOrder(raw string) (SortOrder, bool) {
	switch o := SortOrder(raw); o {
	case SortAsc, SortDesc:
		return o, true
	}
	return "", false
}

// Facets narrows a single category. Exactly one variant exists per
// category family.
type Facets interface {
	forCategory(c listingModel.Category) bool
	empty() bool
}

type PoultryFacets struct {
	Breed    string
	AgeRange string
}

func (PoultryFacets) forCategory(c listingModel.Category) bool {
	return c == listingModel.CategoryPoultry
}

func (f PoultryFacets) empty() bool {
	return f.Breed == "" && f.AgeRange == ""
}

type EggFacets struct {
	EggType  string
	FeedType string
	// MaxDaysOld excludes eggs laid more than N calendar days ago.
	MaxDaysOld *int
}

func (EggFacets) forCategory(c listingModel.Category) bool {
	return c == listingModel.CategoryEggs
}

func (f EggFacets) empty() bool {
	return f.EggType == "" && f.FeedType == "" && f.MaxDaysOld == nil
}

type HousingFacets struct {
	Size      string
	Material  string
	Condition string
}

func (HousingFacets) forCategory(c listingModel.Category) bool {
	return c.IsHousing()
}

func (f HousingFacets) empty() bool {
	return f.Size == "" && f.Material == "" && f.Condition == ""
}

// Page is an offset window over the ordered result set.
type Page struct {
	Limit  int
	Offset int
}

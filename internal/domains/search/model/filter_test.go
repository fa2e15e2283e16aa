package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/shared/apperror"
)

func ptr[T any](v T) *T { return &v }

func TestNewFilter_InvalidRange(t *testing.T) {
	_, err := NewFilter(FilterParams{
		MinPrice: ptr(decimal.NewFromInt(50)),
		MaxPrice: ptr(decimal.NewFromInt(10)),
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, ErrCodeInvalidRange, appErr.Code)

	_, err = NewFilter(FilterParams{
		MinPrice: ptr(decimal.NewFromInt(10)),
		MaxPrice: ptr(decimal.NewFromInt(10)),
	})
	assert.NoError(t, err)
}

func TestNewFilter_Defaults(t *testing.T) {
	f, err := NewFilter(FilterParams{Text: "  hens  "})
	require.NoError(t, err)

	assert.Equal(t, "hens", f.Text())
	assert.Equal(t, DefaultSort, f.Sort())
	assert.Nil(t, f.Category())
	assert.Nil(t, f.MinPrice())
	assert.False(t, f.IncludeInactive())
	assert.True(t, f.WithInactive().IncludeInactive())
	assert.False(t, f.IncludeInactive(), "WithInactive must not modify the receiver")
}

func TestNewFilter_FacetsBoundToCategory(t *testing.T) {
	eggs := listingModel.CategoryEggs
	cage := listingModel.CategoryCage

	f, err := NewFilter(FilterParams{Category: &eggs, Facets: PoultryFacets{Breed: "silkie"}})
	require.NoError(t, err)
	_, ok := f.PoultryFacets()
	assert.False(t, ok)

	f, err = NewFilter(FilterParams{Facets: PoultryFacets{Breed: "silkie"}})
	require.NoError(t, err)
	_, ok = f.PoultryFacets()
	assert.False(t, ok)

	f, err = NewFilter(FilterParams{Category: &cage, Facets: HousingFacets{Size: "large"}})
	require.NoError(t, err)
	h, ok := f.HousingFacets()
	assert.True(t, ok)
	assert.Equal(t, "large", h.Size)

	f, err = NewFilter(FilterParams{Category: &eggs, Facets: EggFacets{}})
	require.NoError(t, err)
	_, ok = f.EggFacets()
	assert.False(t, ok, "empty facets are dropped")
}

func TestNewFilter_MaxDaysOldOutOfRange(t *testing.T) {
	eggs := listingModel.CategoryEggs
	for _, days := range []int{-1, MaxDaysOldLimit + 1, 2_000_000} {
		_, err := NewFilter(FilterParams{Category: &eggs, Facets: EggFacets{MaxDaysOld: ptr(days)}})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	}

	f, err := NewFilter(FilterParams{Category: &eggs, Facets: EggFacets{MaxDaysOld: ptr(MaxDaysOldLimit)}})
	require.NoError(t, err)
	assert.NotNil(t, f.LaidCutoff(time.Now()))
}

func TestFilter_IsImmutable(t *testing.T) {
	eggs := listingModel.CategoryEggs
	days := 3
	minPrice := decimal.NewFromInt(1)
	params := FilterParams{Category: &eggs, MinPrice: &minPrice, Facets: EggFacets{MaxDaysOld: &days}}

	f, err := NewFilter(params)
	require.NoError(t, err)

	days = 99
	minPrice = decimal.NewFromInt(99)
	*params.Category = listingModel.CategoryCage

	assert.Equal(t, listingModel.CategoryEggs, *f.Category())
	assert.True(t, decimal.NewFromInt(1).Equal(*f.MinPrice()))
	e, _ := f.EggFacets()
	assert.Equal(t, 3, *e.MaxDaysOld)

	*e.MaxDaysOld = 42
	e, _ = f.EggFacets()
	assert.Equal(t, 3, *e.MaxDaysOld)
}

func TestFilter_Matches(t *testing.T) {
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	l := &listingModel.Listing{
		ID:          uuid.New(),
		Category:    listingModel.CategoryPoultry,
		Title:       "Laying hens",
		Description: "Point of lay",
		Price:       decimal.NewFromInt(12),
		Location:    "Nakuru Town",
		Attributes:  listingModel.PoultryAttributes{Breed: "Rhode Island Red", AgeRange: "20 weeks"},
		IsActive:    true,
	}
	poultry := listingModel.CategoryPoultry
	eggs := listingModel.CategoryEggs

	tests := []struct {
		name   string
		params FilterParams
		rating float64
		want   bool
	}{
		{"empty filter", FilterParams{}, 0, true},
		{"text in title", FilterParams{Text: "HENS"}, 0, true},
		{"text in breed", FilterParams{Text: "island"}, 0, true},
		{"text missing", FilterParams{Text: "duck"}, 0, false},
		{"category", FilterParams{Category: &poultry}, 0, true},
		{"other category", FilterParams{Category: &eggs}, 0, false},
		{"min price inclusive", FilterParams{MinPrice: ptr(decimal.NewFromInt(12))}, 0, true},
		{"below min price", FilterParams{MinPrice: ptr(decimal.RequireFromString("12.01"))}, 0, false},
		{"max price inclusive", FilterParams{MaxPrice: ptr(decimal.NewFromInt(12))}, 0, true},
		{"above max price", FilterParams{MaxPrice: ptr(decimal.NewFromInt(11))}, 0, false},
		{"location substring", FilterParams{Location: "nakuru"}, 0, true},
		{"location mismatch", FilterParams{Location: "Mombasa"}, 0, false},
		{"rating meets minimum", FilterParams{MinRating: ptr(4.0)}, 4.0, true},
		{"rating below minimum", FilterParams{MinRating: ptr(4.0)}, 3.9, false},
		{"breed facet", FilterParams{Category: &poultry, Facets: PoultryFacets{Breed: "rhode"}}, 0, true},
		{"age facet mismatch", FilterParams{Category: &poultry, Facets: PoultryFacets{AgeRange: "chick"}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Matches(Candidate{Listing: l, SellerRating: tt.rating}, now))
		})
	}

	inactive := *l
	inactive.IsActive = false
	assert.False(t, Filter{}.Matches(Candidate{Listing: &inactive}, now))
	assert.True(t, Filter{}.WithInactive().Matches(Candidate{Listing: &inactive}, now))
}

func TestFilter_Less(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id string, price int64, title string, created time.Time) Candidate {
		return Candidate{Listing: &listingModel.Listing{
			ID:        uuid.MustParse(id),
			Price:     decimal.NewFromInt(price),
			Title:     title,
			CreatedAt: created,
		}}
	}

	a := mk("00000000-0000-0000-0000-00000000000a", 10, "apple", t0)
	b := mk("00000000-0000-0000-0000-00000000000b", 10, "Banana", t0)
	c := mk("00000000-0000-0000-0000-00000000000c", 5, "cherry", t0.Add(time.Hour))

	byPriceAsc, _ := NewFilter(FilterParams{Sort: Sort{Field: SortPrice, Order: SortAsc}})
	assert.True(t, byPriceAsc.Less(c, a))
	assert.True(t, byPriceAsc.Less(a, b), "equal price and created_at fall back to id")
	assert.False(t, byPriceAsc.Less(b, a))

	newest := Filter{}
	assert.True(t, newest.Less(c, a))
	assert.True(t, newest.Less(a, b))

	byTitle, _ := NewFilter(FilterParams{Sort: Sort{Field: SortTitle, Order: SortAsc}})
	assert.True(t, byTitle.Less(a, b))
	assert.True(t, byTitle.Less(b, c))
}

func TestFilter_CacheKey(t *testing.T) {
	f1, _ := NewFilter(FilterParams{Text: "Hens"})
	f2, _ := NewFilter(FilterParams{Text: "hens"})
	f3, _ := NewFilter(FilterParams{Text: "ducks"})

	page := Page{Limit: 20}
	assert.Equal(t, f1.CacheKey(page), f2.CacheKey(page))
	assert.NotEqual(t, f1.CacheKey(page), f3.CacheKey(page))
	assert.NotEqual(t, f1.CacheKey(page), f1.CacheKey(Page{Limit: 20, Offset: 20}))
	assert.NotEqual(t, f1.CacheKey(page), f1.WithInactive().CacheKey(page))
	assert.Contains(t, f1.CacheKey(page), "search:")
}

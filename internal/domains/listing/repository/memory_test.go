package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	ratingModel "poultry-market-backend/internal/domains/rating/model"
	searchModel "poultry-market-backend/internal/domains/search/model"
)

type staticRatings map[uuid.UUID]map[int]int

func (s staticRatings) AggregatesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ratingModel.SellerRatingAggregate, error) {
	out := make(map[uuid.UUID]*ratingModel.SellerRatingAggregate, len(ids))
	for _, id := range ids {
		out[id] = ratingModel.NewAggregate(id, s[id])
	}
	return out, nil
}

var baseTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newListing(seller uuid.UUID, category listingModel.Category, title string, price int64, age time.Duration) *listingModel.Listing {
	return &listingModel.Listing{
		ID:        uuid.New(),
		SellerID:  seller,
		Category:  category,
		Title:     title,
		Price:     decimal.NewFromInt(price),
		Location:  "Nakuru",
		IsActive:  true,
		CreatedAt: baseTime.Add(-age),
		UpdatedAt: baseTime.Add(-age),
	}
}

func seed(t *testing.T, repo Repository, listings ...*listingModel.Listing) {
	t.Helper()
	for _, l := range listings {
		require.NoError(t, repo.Create(context.Background(), l))
	}
}

func ids(listings []*listingModel.Listing) []uuid.UUID {
	out := make([]uuid.UUID, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestMemorySearch_PriceBoundsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	cheap := newListing(seller, listingModel.CategoryPoultry, "Chicks", 5, time.Hour)
	mid := newListing(seller, listingModel.CategoryPoultry, "Hens", 10, 2*time.Hour)
	dear := newListing(seller, listingModel.CategoryPoultry, "Rooster", 20, 3*time.Hour)
	seed(t, repo, cheap, mid, dear)

	filter := mustFilter(t, searchModel.FilterParams{
		MinPrice: ptr(decimal.NewFromInt(10)),
		MaxPrice: ptr(decimal.NewFromInt(20)),
	})

	got, err := repo.Search(ctx, filter, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mid.ID, dear.ID}, ids(got))
}

func TestMemorySearch_TiesBrokenByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	a := newListing(seller, listingModel.CategoryCage, "Cage A", 10, time.Hour)
	b := newListing(seller, listingModel.CategoryCage, "Cage B", 10, time.Hour)
	c := newListing(seller, listingModel.CategoryCage, "Cage C", 10, time.Hour)
	a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	c.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	seed(t, repo, a, b, c)

	for i := 0; i < 5; i++ {
		got, err := repo.Search(ctx, searchModel.Filter{}, searchModel.Page{Limit: 10}, baseTime)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID, c.ID, a.ID}, ids(got))
	}

	page2, err := repo.Search(ctx, searchModel.Filter{}, searchModel.Page{Limit: 2, Offset: 2}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, ids(page2))
}

func TestMemorySearch_FacetIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	coop := newListing(seller, listingModel.CategoryCoop, "Wooden coop", 100, time.Hour)
	coop.Attributes = listingModel.HousingAttributes{Material: "wood"}
	// A poultry row that carries stray housing attributes must not surface.
	stray := newListing(seller, listingModel.CategoryPoultry, "Layers", 100, time.Hour)
	stray.Attributes = listingModel.HousingAttributes{Material: "wood"}
	seed(t, repo, coop, stray)

	coopCategory := listingModel.CategoryCoop
	filter := mustFilter(t, searchModel.FilterParams{
		Category: &coopCategory,
		Facets:   searchModel.HousingFacets{Material: "WOOD"},
	})
	got, err := repo.Search(ctx, filter, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{coop.ID}, ids(got))

	poultry := listingModel.CategoryPoultry
	filter = mustFilter(t, searchModel.FilterParams{
		Category: &poultry,
		Facets:   searchModel.PoultryFacets{Breed: "leghorn"},
	})
	got, err = repo.Search(ctx, filter, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySearch_SoftDeleteExcluded(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	live := newListing(seller, listingModel.CategoryEggs, "Tray of eggs", 4, time.Hour)
	gone := newListing(seller, listingModel.CategoryEggs, "Old eggs", 4, 2*time.Hour)
	seed(t, repo, live, gone)
	require.NoError(t, repo.SetActive(ctx, gone.ID, false))

	got, err := repo.Search(ctx, searchModel.Filter{}, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{live.ID}, ids(got))

	all, err := repo.Search(ctx, searchModel.Filter{}.WithInactive(), searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{live.ID, gone.ID}, ids(all))

	assert.ErrorIs(t, repo.SetActive(ctx, uuid.New(), false), listingModel.ErrListingNotFound)
}

func TestMemorySearch_MinRatingAndRatingSort(t *testing.T) {
	ctx := context.Background()
	good, poor, unrated := uuid.New(), uuid.New(), uuid.New()
	repo := NewMemoryRepository(staticRatings{
		good: {5: 3, 4: 1},
		poor: {2: 2},
	})

	fromGood := newListing(good, listingModel.CategoryPoultry, "Kienyeji", 10, 3*time.Hour)
	fromPoor := newListing(poor, listingModel.CategoryPoultry, "Broilers", 10, 2*time.Hour)
	fromUnrated := newListing(unrated, listingModel.CategoryPoultry, "Ducks", 10, time.Hour)
	seed(t, repo, fromGood, fromPoor, fromUnrated)

	filter := mustFilter(t, searchModel.FilterParams{MinRating: ptr(4.0)})
	got, err := repo.Search(ctx, filter, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fromGood.ID}, ids(got))

	filter = mustFilter(t, searchModel.FilterParams{
		Sort: searchModel.Sort{Field: searchModel.SortRating, Order: searchModel.SortDesc},
	})
	got, err = repo.Search(ctx, filter, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fromGood.ID, fromPoor.ID, fromUnrated.ID}, ids(got))
}

func TestMemorySearch_MaxDaysOld(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	laid := func(daysAgo int) *time.Time {
		d := baseTime.AddDate(0, 0, -daysAgo)
		return &d
	}

	fresh := newListing(seller, listingModel.CategoryEggs, "Fresh", 5, time.Hour)
	fresh.Attributes = listingModel.EggAttributes{EggType: "chicken", LaidDate: laid(2)}
	edge := newListing(seller, listingModel.CategoryEggs, "Edge", 5, 2*time.Hour)
	edge.Attributes = listingModel.EggAttributes{EggType: "chicken", LaidDate: laid(3)}
	stale := newListing(seller, listingModel.CategoryEggs, "Stale", 5, 3*time.Hour)
	stale.Attributes = listingModel.EggAttributes{EggType: "chicken", LaidDate: laid(4)}
	undated := newListing(seller, listingModel.CategoryEggs, "Undated", 5, 4*time.Hour)
	undated.Attributes = listingModel.EggAttributes{EggType: "chicken"}
	seed(t, repo, fresh, edge, stale, undated)

	eggs := listingModel.CategoryEggs
	filter := mustFilter(t, searchModel.FilterParams{
		Category: &eggs,
		Facets:   searchModel.EggFacets{MaxDaysOld: ptr(3)},
	})
	got, err := repo.Search(ctx, filter, searchModel.Page{Limit: 10}, baseTime)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fresh.ID, edge.ID}, ids(got))
}

func TestMemoryListBySeller(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller, other := uuid.New(), uuid.New()

	newest := newListing(seller, listingModel.CategoryPoultry, "Newest", 1, time.Hour)
	older := newListing(seller, listingModel.CategoryPoultry, "Older", 1, 48*time.Hour)
	ancient := newListing(seller, listingModel.CategoryPoultry, "Ancient", 1, 40*24*time.Hour)
	inactive := newListing(seller, listingModel.CategoryPoultry, "Inactive", 1, 2*time.Hour)
	inactive.IsActive = false
	foreign := newListing(other, listingModel.CategoryPoultry, "Foreign", 1, time.Hour)
	seed(t, repo, newest, older, ancient, inactive, foreign)

	since := baseTime.AddDate(0, 0, -30)
	got, err := repo.ListBySeller(ctx, seller, SellerListingOptions{ActiveOnly: true, Since: &since, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newest.ID, older.ID}, ids(got))

	got, err = repo.ListBySeller(ctx, seller, SellerListingOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newest.ID, inactive.ID}, ids(got))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	l := newListing(uuid.New(), listingModel.CategoryPoultry, "Original", 1, time.Hour)
	l.Images = []string{"a.jpg"}
	seed(t, repo, l)

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	got.Title = "Changed"
	got.Images[0] = "b.jpg"

	again, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
	assert.Equal(t, []string{"a.jpg"}, again.Images)
}

func TestMemoryCountActiveByCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	off := newListing(seller, listingModel.CategoryCoop, "Off", 1, time.Hour)
	off.IsActive = false
	seed(t, repo,
		newListing(seller, listingModel.CategoryEggs, "E1", 1, time.Hour),
		newListing(seller, listingModel.CategoryEggs, "E2", 1, time.Hour),
		newListing(seller, listingModel.CategoryPoultry, "P1", 1, time.Hour),
		off,
	)

	counts, err := repo.CountActiveByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []listingModel.ActiveCount{
		{Category: listingModel.CategoryEggs, Count: 2},
		{Category: listingModel.CategoryPoultry, Count: 1},
	}, counts)
}

func TestMemoryCountActiveBySellers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	a, b, idle := uuid.New(), uuid.New(), uuid.New()

	off := newListing(b, listingModel.CategoryCage, "Off", 1, time.Hour)
	off.IsActive = false
	seed(t, repo,
		newListing(a, listingModel.CategoryEggs, "E1", 1, time.Hour),
		newListing(a, listingModel.CategoryPoultry, "P1", 1, time.Hour),
		newListing(b, listingModel.CategoryEggs, "E2", 1, time.Hour),
		newListing(uuid.New(), listingModel.CategoryEggs, "Other", 1, time.Hour),
		off,
	)

	counts, err := repo.CountActiveBySellers(ctx, []uuid.UUID{a, b, idle})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{a: 2, b: 1}, counts)
}

func TestMemoryGetByIDs_IncludesInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)
	seller := uuid.New()

	on := newListing(seller, listingModel.CategoryEggs, "On", 1, time.Hour)
	off := newListing(seller, listingModel.CategoryCoop, "Off", 1, time.Hour)
	off.IsActive = false
	seed(t, repo, on, off)

	got, err := repo.GetByIDs(ctx, []uuid.UUID{on.ID, off.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Off", got[off.ID].Title)
}

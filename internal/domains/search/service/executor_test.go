package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	listingRepo "poultry-market-backend/internal/domains/listing/repository"
	listingService "poultry-market-backend/internal/domains/listing/service"
	ratingModel "poultry-market-backend/internal/domains/rating/model"
	"poultry-market-backend/internal/domains/search/model"
	"poultry-market-backend/internal/shared/apperror"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

type stubRatings struct {
	err  error
	aggs map[uuid.UUID]*ratingModel.SellerRatingAggregate
}

func (s *stubRatings) AggregatesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ratingModel.SellerRatingAggregate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.aggs, nil
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	if fill, ok := args.Get(0).(func(interface{})); ok {
		fill(dest)
		return true, args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type brokenStore struct {
	listingRepo.Repository
}

func (brokenStore) Search(ctx context.Context, filter model.Filter, page model.Page, now time.Time) ([]*listingModel.Listing, error) {
	return nil, errors.New("connection refused")
}

func seedListings(t *testing.T, repo listingRepo.Repository, seller uuid.UUID, n int) []*listingModel.Listing {
	t.Helper()
	out := make([]*listingModel.Listing, 0, n)
	for i := 0; i < n; i++ {
		l := &listingModel.Listing{
			ID:         uuid.New(),
			SellerID:   seller,
			Category:   listingModel.CategoryPoultry,
			Title:      "Kienyeji hen",
			Price:      decimal.NewFromInt(int64(10 + i)),
			Location:   "Nakuru",
			Attributes: listingModel.PoultryAttributes{Breed: "Kienyeji"},
			IsActive:   true,
			CreatedAt:  testNow.Add(-time.Duration(i) * time.Hour),
			UpdatedAt:  testNow.Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Create(context.Background(), l))
		out = append(out, l)
	}
	return out
}

func newExecutor(ratings *stubRatings, store listingRepo.Repository, c *MockCache, ttl time.Duration) *Executor {
	annotator := listingService.NewAnnotator(ratings, func() time.Time { return testNow })
	if c == nil {
		return NewExecutor(store, annotator, nil, ttl)
	}
	return NewExecutor(store, annotator, c, ttl)
}

func TestExecutor_Search_Paging(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	ratings := &stubRatings{aggs: map[uuid.UUID]*ratingModel.SellerRatingAggregate{
		seller: ratingModel.NewAggregate(seller, map[int]int{4: 1}),
	}}
	repo := listingRepo.NewMemoryRepository(ratings)
	seeded := seedListings(t, repo, seller, 5)
	exec := newExecutor(ratings, repo, nil, 0)

	filter, err := model.NewFilter(model.FilterParams{})
	require.NoError(t, err)

	first, err := exec.Search(ctx, filter, model.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, seeded[0].ID, first.Items[0].ID)
	assert.Equal(t, 4.0, first.Items[0].SellerRating.Average)
	assert.Nil(t, first.Items[0].Freshness)

	last, err := exec.Search(ctx, filter, model.Page{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.False(t, last.HasMore)
	assert.Equal(t, seeded[4].ID, last.Items[0].ID)

	past, err := exec.Search(ctx, filter, model.Page{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.False(t, past.HasMore)
}

func TestExecutor_Search_RadiusIsApproximate(t *testing.T) {
	ratings := &stubRatings{}
	exec := newExecutor(ratings, listingRepo.NewMemoryRepository(ratings), nil, 0)

	radius := 30.0
	filter, err := model.NewFilter(model.FilterParams{Location: "Nakuru", RadiusMiles: &radius})
	require.NoError(t, err)

	result, err := exec.Search(context.Background(), filter, model.Page{Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, result.RadiusMiles)
	assert.Equal(t, 30.0, *result.RadiusMiles)
	assert.True(t, result.RadiusApproximate)
}

func TestExecutor_AdminSearch_IncludesInactive(t *testing.T) {
	ctx := context.Background()
	ratings := &stubRatings{}
	repo := listingRepo.NewMemoryRepository(ratings)
	seeded := seedListings(t, repo, uuid.New(), 2)
	require.NoError(t, repo.SetActive(ctx, seeded[1].ID, false))

	c := new(MockCache)
	exec := newExecutor(ratings, repo, c, time.Minute)
	filter, err := model.NewFilter(model.FilterParams{})
	require.NoError(t, err)

	admin, err := exec.AdminSearch(ctx, filter, model.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, admin.Items, 2)
	// Admin results never touch the cache.
	c.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(nil).Once()

	public, err := exec.Search(ctx, filter, model.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, public.Items, 1)
	assert.Equal(t, seeded[0].ID, public.Items[0].ID)
	c.AssertExpectations(t)
}

func TestExecutor_Search_Cache(t *testing.T) {
	ctx := context.Background()
	ratings := &stubRatings{}
	filter, err := model.NewFilter(model.FilterParams{Text: "hen"})
	require.NoError(t, err)
	page := model.Page{Limit: 5}
	key := filter.CacheKey(page)

	t.Run("hit skips the store", func(t *testing.T) {
		c := new(MockCache)
		cachedID := uuid.New()
		c.On("Get", ctx, key, mock.Anything).Return(func(dest interface{}) {
			r := dest.(*Result)
			r.Limit = 5
			r.Items = []listingModel.AnnotatedListing{{ListingResponse: listingModel.ListingResponse{ID: cachedID}}}
		}, nil).Once()

		exec := newExecutor(ratings, brokenStore{}, c, time.Minute)
		result, err := exec.Search(ctx, filter, page)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, cachedID, result.Items[0].ID)
		c.AssertExpectations(t)
	})

	t.Run("read failure falls through to the store", func(t *testing.T) {
		c := new(MockCache)
		c.On("Get", ctx, key, mock.Anything).Return(false, errors.New("redis down")).Once()
		c.On("Set", ctx, key, mock.AnythingOfType("*service.Result"), time.Minute).Return(errors.New("redis down")).Once()

		repo := listingRepo.NewMemoryRepository(ratings)
		seedListings(t, repo, uuid.New(), 1)
		exec := newExecutor(ratings, repo, c, time.Minute)

		result, err := exec.Search(ctx, filter, page)
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
		c.AssertExpectations(t)
	})
}

func TestExecutor_Search_Failures(t *testing.T) {
	filter, err := model.NewFilter(model.FilterParams{})
	require.NoError(t, err)

	t.Run("store down", func(t *testing.T) {
		exec := newExecutor(&stubRatings{}, brokenStore{}, nil, 0)
		_, err := exec.Search(context.Background(), filter, model.Page{Limit: 5})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindDependencyUnavailable))
	})

	t.Run("ratings down", func(t *testing.T) {
		ratings := &stubRatings{}
		repo := listingRepo.NewMemoryRepository(ratings)
		seedListings(t, repo, uuid.New(), 1)
		ratings.err = errors.New("timeout")

		exec := newExecutor(ratings, repo, nil, 0)
		_, err := exec.Search(context.Background(), filter, model.Page{Limit: 5})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindDependencyUnavailable))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exec := newExecutor(&stubRatings{}, brokenStore{}, nil, 0)
		_, err := exec.Search(ctx, filter, model.Page{Limit: 5})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

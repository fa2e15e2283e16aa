package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/listing/repository"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/internal/shared/apperror"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	return m.Called(ctx, subject, payload).Error(0)
}

func (m *MockPublisher) Close() {}

func newTestService(t *testing.T, pub *MockPublisher) (ServiceInterface, repository.Repository) {
	t.Helper()
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	ratings := &fakeRatings{}
	repo := repository.NewMemoryRepository(ratings)
	svc := NewListingService(repo, NewAnnotator(ratings, func() time.Time { return now }), nil, pub)
	return svc, repo
}

func TestCreateListing(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, shared.EventListingCreated, mock.AnythingOfType("service.ListingEvent")).Return(nil)
	svc, _ := newTestService(t, pub)
	seller := uuid.New()

	created, err := svc.CreateListing(ctx, seller, model.CreateListingRequest{
		Title:    "  Fresh duck eggs ",
		Category: "Eggs",
		Price:    decimal.RequireFromString("4.50"),
		Location: "Kisumu",
		EggType:  "duck",
		LaidDate: "2026-04-01",
		// Poultry-only field on an egg listing is dropped.
		Breed: "Pekin",
	})
	require.NoError(t, err)

	assert.Equal(t, "Fresh duck eggs", created.Title)
	assert.Equal(t, model.CategoryEggs, created.Category)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.Eggs)
	assert.Equal(t, "duck", created.Eggs.EggType)
	assert.Nil(t, created.Poultry)
	require.NotNil(t, created.Freshness)
	assert.Equal(t, "Yesterday", created.Freshness.Label)
	assert.True(t, created.SellerRating.NoRatings)

	got, err := svc.GetListing(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	pub.AssertExpectations(t)
}

func TestCreateListing_Invalid(t *testing.T) {
	svc, _ := newTestService(t, new(MockPublisher))

	tests := []struct {
		name string
		req  model.CreateListingRequest
	}{
		{"missing title", model.CreateListingRequest{Category: "poultry", Location: "x"}},
		{"unknown category", model.CreateListingRequest{Title: "t", Category: "goats", Location: "x"}},
		{"negative price", model.CreateListingRequest{Title: "t", Category: "cage", Location: "x", Price: decimal.NewFromInt(-1)}},
		{"bad laid date", model.CreateListingRequest{Title: "t", Category: "eggs", Location: "x", LaidDate: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateListing(context.Background(), uuid.New(), tt.req)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
}

func TestDeactivateListing(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newTestService(t, pub)

	owner, stranger, admin := uuid.New(), uuid.New(), uuid.New()
	created, err := svc.CreateListing(ctx, owner, model.CreateListingRequest{
		Title: "Wire cage", Category: "cage", Location: "Eldoret", Material: "wire",
	})
	require.NoError(t, err)

	err = svc.DeactivateListing(ctx, stranger, false, created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	require.NoError(t, svc.DeactivateListing(ctx, owner, false, created.ID))
	// Repeating the soft delete is harmless.
	require.NoError(t, svc.DeactivateListing(ctx, admin, true, created.ID))

	_, err = svc.GetListing(ctx, created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	listings, err := svc.ListSellerListings(ctx, owner, 0)
	require.NoError(t, err)
	assert.Empty(t, listings)

	err = svc.DeactivateListing(ctx, admin, true, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	pub.AssertCalled(t, "Publish", mock.Anything, shared.EventListingDeactivated, mock.Anything)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newTestService(t, pub)

	stats, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalActive)
	assert.NotNil(t, stats.ActiveByCategory)

	seller := uuid.New()
	for _, c := range []string{"poultry", "poultry", "coop"} {
		_, err := svc.CreateListing(ctx, seller, model.CreateListingRequest{Title: "x", Category: c, Location: "y"})
		require.NoError(t, err)
	}

	stats, err = svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalActive)
	assert.Len(t, stats.ActiveByCategory, 2)
}

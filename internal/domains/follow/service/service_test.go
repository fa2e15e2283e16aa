package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/internal/domains/follow/repository"
	userModel "poultry-market-backend/internal/domains/user/model"
	userRepo "poultry-market-backend/internal/domains/user/repository"
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

type brokenDirectory struct{}

func (brokenDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, errors.New("directory timeout")
}

func (brokenDirectory) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*userModel.User, error) {
	return nil, errors.New("directory timeout")
}

type fixture struct {
	svc   ServiceInterface
	repo  repository.Repository
	pub   *MockPublisher
	users map[string]uuid.UUID
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	directory := userRepo.NewMemoryRepository()
	f := &fixture{repo: repository.NewMemoryRepository(), pub: new(MockPublisher), users: map[string]uuid.UUID{}}

	for _, name := range names {
		u := &userModel.User{ID: uuid.New(), Name: name, Location: name + " farm", Role: "user"}
		require.NoError(t, directory.Create(ctx, u))
		f.users[name] = u.ID
	}
	f.svc = NewFollowService(f.repo, directory, f.pub)
	return f
}

func TestFollow_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "amina", "baraka")
	a, b := f.users["amina"], f.users["baraka"]
	f.pub.On("Publish", mock.Anything, shared.EventFollowCreated, mock.AnythingOfType("model.FollowEvent")).Return(nil).Once()

	require.NoError(t, f.svc.Follow(ctx, a, b))
	require.NoError(t, f.svc.Follow(ctx, a, b))

	stats, err := f.svc.Stats(ctx, b, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FollowersCount)
	assert.Nil(t, stats.IsFollowing)

	following, err := f.svc.IsFollowing(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, following)
	f.pub.AssertExpectations(t)
}

func codeOf(err error) string {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Code
	}
	return ""
}

func TestFollow_Self(t *testing.T) {
	f := newFixture(t, "amina")
	a := f.users["amina"]

	err := f.svc.Follow(context.Background(), a, a)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, model.ErrCodeSelfFollow, codeOf(err))

	// Unfollowing yourself is a no-op.
	assert.NoError(t, f.svc.Unfollow(context.Background(), a, a))
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_UnknownUser(t *testing.T) {
	f := newFixture(t, "amina")

	err := f.svc.Follow(context.Background(), f.users["amina"], uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, userModel.ErrCodeUserNotFound, codeOf(err))
}

func TestFollow_DirectoryDown(t *testing.T) {
	svc := NewFollowService(repository.NewMemoryRepository(), brokenDirectory{}, nil)

	err := svc.Follow(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDependencyUnavailable))
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "amina", "baraka")
	a, b := f.users["amina"], f.users["baraka"]

	// Missing edge: no-op, no event.
	require.NoError(t, f.svc.Unfollow(ctx, a, b))
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

	f.pub.On("Publish", mock.Anything, shared.EventFollowCreated, mock.Anything).Return(nil).Once()
	f.pub.On("Publish", mock.Anything, shared.EventFollowRemoved, mock.Anything).Return(errors.New("nats down")).Once()

	require.NoError(t, f.svc.Follow(ctx, a, b))
	// A publish failure never fails the mutation.
	require.NoError(t, f.svc.Unfollow(ctx, a, b))
	require.NoError(t, f.svc.Unfollow(ctx, a, b))

	stats, err := f.svc.Stats(ctx, a, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.FollowingCount)
	f.pub.AssertExpectations(t)
}

func TestStats_WithViewer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "amina", "baraka", "chebet")
	a, b, c := f.users["amina"], f.users["baraka"], f.users["chebet"]
	f.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.svc.Follow(ctx, a, b))
	require.NoError(t, f.svc.Follow(ctx, c, b))
	require.NoError(t, f.svc.Follow(ctx, b, a))

	stats, err := f.svc.Stats(ctx, b, &a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.FollowersCount)
	assert.Equal(t, int64(1), stats.FollowingCount)
	require.NotNil(t, stats.IsFollowing)
	assert.True(t, *stats.IsFollowing)

	stats, err = f.svc.Stats(ctx, a, &c)
	require.NoError(t, err)
	require.NotNil(t, stats.IsFollowing)
	assert.False(t, *stats.IsFollowing)

	_, err = f.svc.Stats(ctx, uuid.New(), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestFollowersAndFollowing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "amina", "baraka", "chebet")
	a, b, c := f.users["amina"], f.users["baraka"], f.users["chebet"]
	f.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	clock := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	f.svc.(*followService).now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, f.svc.Follow(ctx, a, c))
	require.NoError(t, f.svc.Follow(ctx, b, c))

	followers, err := f.svc.Followers(ctx, c, 0, 0)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, b, followers[0].UserID)
	assert.Equal(t, "baraka", followers[0].Name)
	assert.Equal(t, "baraka farm", followers[0].Location)
	assert.Equal(t, a, followers[1].UserID)

	following, err := f.svc.Following(ctx, a, 10, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "chebet", following[0].Name)

	ids, err := f.svc.FolloweeIDs(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c}, ids)

	none, err := f.svc.Followers(ctx, a, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

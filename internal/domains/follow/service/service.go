package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/internal/domains/follow/repository"
	userModel "poultry-market-backend/internal/domains/user/model"
	"poultry-market-backend/internal/infrastructure/messaging"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/logger"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type followService struct {
	repo      repository.Repository
	users     UserDirectory
	publisher messaging.Publisher
	now       func() time.Time
}

func NewFollowService(repo repository.Repository, users UserDirectory, publisher messaging.Publisher) ServiceInterface {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &followService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return model.NewSelfFollowError()
	}
	if err := s.ensureUser(ctx, followeeID); err != nil {
		return err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &model.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  now,
	})
	if err != nil {
		return model.NewStoreUnavailableError(err)
	}
	if created {
		s.publish(ctx, shared.EventFollowCreated, followerID, followeeID, now)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return nil
	}

	deleted, err := s.repo.Delete(ctx, followerID, followeeID)
	if err != nil {
		return model.NewStoreUnavailableError(err)
	}
	if deleted {
		s.publish(ctx, shared.EventFollowRemoved, followerID, followeeID, s.now())
	}
	return nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if followerID == followeeID {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return false, model.NewStoreUnavailableError(err)
	}
	return ok, nil
}

func (s *followService) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.FolloweeIDs(ctx, followerID)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}
	return ids, nil
}

func (s *followService) Stats(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*model.Stats, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	stats, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}

	if viewer != nil {
		following, err := s.IsFollowing(ctx, *viewer, userID)
		if err != nil {
			return nil, err
		}
		stats.IsFollowing = &following
	}
	return stats, nil
}

func (s *followService) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Connection, error) {
	limit, offset = normalizePage(limit, offset)
	edges, err := s.repo.Followers(ctx, userID, limit, offset)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}
	return s.connections(ctx, edges, func(f *model.Follow) uuid.UUID { return f.FollowerID })
}

func (s *followService) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Connection, error) {
	limit, offset = normalizePage(limit, offset)
	edges, err := s.repo.Following(ctx, userID, limit, offset)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}
	return s.connections(ctx, edges, func(f *model.Follow) uuid.UUID { return f.FolloweeID })
}

func (s *followService) ReconcileCounters(ctx context.Context) (int64, error) {
	fixed, err := s.repo.ReconcileCounters(ctx)
	if err != nil {
		return 0, model.NewStoreUnavailableError(err)
	}
	return fixed, nil
}

// connections joins edges with user summaries in one directory lookup.
// Users missing from the directory keep only their id.
func (s *followService) connections(
	ctx context.Context,
	edges []*model.Follow,
	other func(*model.Follow) uuid.UUID,
) ([]model.Connection, error) {
	out := make([]model.Connection, 0, len(edges))
	if len(edges) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, other(e))
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, userModel.NewDirectoryUnavailableError(err)
	}

	for _, e := range edges {
		id := other(e)
		conn := model.Connection{UserID: id, FollowedAt: e.CreatedAt}
		if u, ok := users[id]; ok {
			conn.Name = u.Name
			conn.Location = u.Location
		}
		out = append(out, conn)
	}
	return out, nil
}

func (s *followService) ensureUser(ctx context.Context, id uuid.UUID) error {
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return userModel.NewDirectoryUnavailableError(err)
	}
	if !exists {
		return userModel.NewUserNotFoundError()
	}
	return nil
}

func (s *followService) publish(ctx context.Context, subject string, followerID, followeeID uuid.UUID, at time.Time) {
	event := model.FollowEvent{FollowerID: followerID, FolloweeID: followeeID, OccurredAt: at}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		logger.Warn("failed to publish follow event", err)
		return
	}
	logger.Debug("follow event published", map[string]interface{}{
		"subject":     subject,
		"follower_id": followerID.String(),
		"followee_id": followeeID.String(),
	})
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

package service

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/follow/model"
	userModel "poultry-market-backend/internal/domains/user/model"
)

type ServiceInterface interface {
	// Follow is idempotent. Following yourself is a conflict.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	// Unfollow is idempotent; removing a missing edge is a no-op.
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error

	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)

	// Stats sets IsFollowing only when viewer is non-nil.
	Stats(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*model.Stats, error)

	Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Connection, error)
	Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Connection, error)

	ReconcileCounters(ctx context.Context) (int64, error)
}

// UserDirectory resolves users referenced by follow edges.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*userModel.User, error)
}

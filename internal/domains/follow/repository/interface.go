package repository

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/follow/model"
)

// Repository stores follow edges together with the per-user counters.
// Create and Delete change the edge and both counters atomically.
type Repository interface {
	// Create reports false when the edge already existed.
	Create(ctx context.Context, follow *model.Follow) (bool, error)

	// Delete reports false when there was no edge to remove.
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// FolloweeIDs returns every user followerID follows.
	FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)

	// Followers and Following page edges newest first.
	Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Follow, error)
	Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Follow, error)

	Counts(ctx context.Context, userID uuid.UUID) (*model.Stats, error)

	// ReconcileCounters recomputes every counter from the edges and returns
	// how many users had drifted.
	ReconcileCounters(ctx context.Context) (int64, error)
}

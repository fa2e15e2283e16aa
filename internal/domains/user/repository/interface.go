package repository

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/user/model"
)

// Repository is the user directory.
type Repository interface {
	// Create fails with model.ErrEmailTaken when the email is in use.
	Create(ctx context.Context, user *model.User) error
	// Upsert inserts user or updates its profile fields. Role, CreatedAt
	// and PasswordHash of an existing user are kept.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByIDs returns the users that exist, keyed by id. Missing ids are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// GetByEmail matches the lowercased email exactly.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns users oldest first together with the total count.
	List(ctx context.Context, limit, offset int) ([]*model.User, int64, error)
}

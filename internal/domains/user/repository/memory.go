package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/user/model"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

// NewMemoryRepository returns a process-local directory used by the memory
// driver and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[uuid.UUID]model.User)}
}

// emailTakenLocked reports whether another user holds email. Callers hold mu.
func (r *memoryRepository) emailTakenLocked(email string, self uuid.UUID) bool {
	if email == "" {
		return false
	}
	for id, u := range r.users {
		if id != self && u.Email == email {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(user.Email, user.ID) {
		return model.ErrEmailTaken
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(user.Email, user.ID) {
		return nil, model.ErrEmailTaken
	}

	u := *user
	if existing, ok := r.users[user.ID]; ok {
		u.Role = existing.Role
		u.CreatedAt = existing.CreatedAt
		u.PasswordHash = existing.PasswordHash
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make(map[uuid.UUID]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users[id] = &u
		}
	}
	return users, nil
}

func (r *memoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *memoryRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if email != "" && u.Email == email {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memoryRepository) List(ctx context.Context, limit, offset int) ([]*model.User, int64, error) {
	r.mu.RLock()
	all := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		all = append(all, &u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []*model.User{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

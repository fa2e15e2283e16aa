package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/rating/model"
)

type ratingKey struct {
	seller  uuid.UUID
	rater   uuid.UUID
	listing uuid.UUID
}

type memoryRepository struct {
	mu      sync.RWMutex
	ratings []model.Rating
	seen    map[ratingKey]struct{}
}

func NewMemoryRepository() Repository {
	return &memoryRepository{seen: make(map[ratingKey]struct{})}
}

func (r *memoryRepository) Create(ctx context.Context, rating *model.Rating) error {
	key := ratingKey{seller: rating.SellerID, rater: rating.RaterID}
	if rating.ListingID != nil {
		key.listing = *rating.ListingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.seen[key]; dup {
		return model.ErrAlreadyRated
	}
	r.seen[key] = struct{}{}
	r.ratings = append(r.ratings, *rating)
	return nil
}

func (r *memoryRepository) Aggregates(
	ctx context.Context,
	sellerIDs []uuid.UUID,
) (map[uuid.UUID]*model.SellerRatingAggregate, error) {
	wanted := make(map[uuid.UUID]map[int]int, len(sellerIDs))
	for _, id := range sellerIDs {
		wanted[id] = make(map[int]int)
	}

	r.mu.RLock()
	for _, rt := range r.ratings {
		if b, ok := wanted[rt.SellerID]; ok {
			b[rt.Stars]++
		}
	}
	r.mu.RUnlock()

	result := make(map[uuid.UUID]*model.SellerRatingAggregate, len(wanted))
	for id, breakdown := range wanted {
		result[id] = model.NewAggregate(id, breakdown)
	}
	return result, nil
}

func (r *memoryRepository) ListBySeller(
	ctx context.Context,
	sellerID uuid.UUID,
	limit, offset int,
) ([]*model.Rating, error) {
	r.mu.RLock()
	var matched []*model.Rating
	for i := range r.ratings {
		if r.ratings[i].SellerID == sellerID {
			rt := r.ratings[i]
			matched = append(matched, &rt)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if offset >= len(matched) {
		return []*model.Rating{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

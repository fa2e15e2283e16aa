package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/listing/model"
	searchModel "poultry-market-backend/internal/domains/search/model"
)

type memoryRepository struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*model.Listing
	ratings  RatingSource
}

// NewMemoryRepository returns a process-local store. ratings backs the
// min_rating filter and rating sort; it may be nil when neither is used.
func NewMemoryRepository(ratings RatingSource) Repository {
	return &memoryRepository{
		listings: make(map[uuid.UUID]*model.Listing),
		ratings:  ratings,
	}
}

func (r *memoryRepository) Create(ctx context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.listings[l.ID]; exists {
		return fmt.Errorf("listing %s already exists", l.ID)
	}
	r.listings[l.ID] = l.Clone()
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, model.ErrListingNotFound
	}
	return l.Clone(), nil
}

func (r *memoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*model.Listing, len(ids))
	for _, id := range ids {
		if l, ok := r.listings[id]; ok {
			out[id] = l.Clone()
		}
	}
	return out, nil
}

func (r *memoryRepository) snapshot(keep func(*model.Listing) bool) []*model.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if keep(l) {
			out = append(out, l.Clone())
		}
	}
	return out
}

func (r *memoryRepository) ListBySeller(
	ctx context.Context,
	sellerID uuid.UUID,
	opts SellerListingOptions,
) ([]*model.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listings := r.snapshot(func(l *model.Listing) bool {
		if l.SellerID != sellerID || (opts.ActiveOnly && !l.IsActive) {
			return false
		}
		return opts.Since == nil || !l.CreatedAt.Before(*opts.Since)
	})

	newestFirst := searchModel.Filter{}
	sort.Slice(listings, func(i, j int) bool {
		return newestFirst.Less(searchModel.Candidate{Listing: listings[i]}, searchModel.Candidate{Listing: listings[j]})
	})

	if opts.Limit > 0 && len(listings) > opts.Limit {
		listings = listings[:opts.Limit]
	}
	return listings, nil
}

func (r *memoryRepository) Search(
	ctx context.Context,
	filter searchModel.Filter,
	page searchModel.Page,
	now time.Time,
) ([]*model.Listing, error) {
	listings := r.snapshot(func(*model.Listing) bool { return true })

	ratings, err := r.sellerRatings(ctx, filter, listings)
	if err != nil {
		return nil, err
	}

	candidates := make([]searchModel.Candidate, 0, len(listings))
	for _, l := range listings {
		c := searchModel.Candidate{Listing: l, SellerRating: ratings[l.SellerID]}
		if filter.Matches(c, now) {
			candidates = append(candidates, c)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return filter.Less(candidates[i], candidates[j])
	})

	if page.Offset >= len(candidates) {
		return []*model.Listing{}, nil
	}
	end := len(candidates)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}

	out := make([]*model.Listing, 0, end-page.Offset)
	for _, c := range candidates[page.Offset:end] {
		out = append(out, c.Listing)
	}
	return out, nil
}

func (r *memoryRepository) sellerRatings(
	ctx context.Context,
	filter searchModel.Filter,
	listings []*model.Listing,
) (map[uuid.UUID]float64, error) {
	averages := make(map[uuid.UUID]float64)
	if r.ratings == nil || (filter.MinRating() == nil && filter.Sort().Field != searchModel.SortRating) {
		return averages, nil
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, l := range listings {
		if _, ok := seen[l.SellerID]; !ok {
			seen[l.SellerID] = struct{}{}
			ids = append(ids, l.SellerID)
		}
	}

	aggs, err := r.ratings.AggregatesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, agg := range aggs {
		if agg.HasRatings() {
			averages[id] = agg.AverageRating
		}
	}
	return averages, nil
}

func (r *memoryRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return model.ErrListingNotFound
	}
	l.IsActive = active
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepository) CountActiveByCategory(ctx context.Context) ([]model.ActiveCount, error) {
	r.mu.RLock()
	counts := make(map[model.Category]int)
	for _, l := range r.listings {
		if l.IsActive {
			counts[l.Category]++
		}
	}
	r.mu.RUnlock()

	var out []model.ActiveCount
	for _, c := range model.Categories() {
		if n := counts[c]; n > 0 {
			out = append(out, model.ActiveCount{Category: c, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *memoryRepository) CountActiveBySellers(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	wanted := make(map[uuid.UUID]struct{}, len(sellerIDs))
	for _, id := range sellerIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	for _, l := range r.listings {
		if _, ok := wanted[l.SellerID]; ok && l.IsActive {
			counts[l.SellerID]++
		}
	}
	return counts, nil
}

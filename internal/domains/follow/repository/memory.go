package repository

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/follow/model"
)

const lockStripes = 64

type edgeKey struct {
	follower, followee uuid.UUID
}

type counters struct {
	followers atomic.Int64
	following atomic.Int64
}

// memoryRepository keeps edges in a sync.Map. Writes to one pair are
// serialized by a striped lock so the edge and both counters change together;
// unrelated pairs rarely share a stripe.
type memoryRepository struct {
	stripes  [lockStripes]sync.Mutex
	edges    sync.Map // edgeKey -> *model.Follow
	counters sync.Map // uuid.UUID -> *counters
}

func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) stripe(k edgeKey) *sync.Mutex {
	return &r.stripes[int(k.follower[15]^k.followee[15])%lockStripes]
}

func (r *memoryRepository) countersOf(id uuid.UUID) *counters {
	c, _ := r.counters.LoadOrStore(id, &counters{})
	return c.(*counters)
}

func (r *memoryRepository) Create(ctx context.Context, follow *model.Follow) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	k := edgeKey{follower: follow.FollowerID, followee: follow.FolloweeID}

	mu := r.stripe(k)
	mu.Lock()
	defer mu.Unlock()

	edge := *follow
	if _, loaded := r.edges.LoadOrStore(k, &edge); loaded {
		return false, nil
	}
	r.countersOf(k.follower).following.Add(1)
	r.countersOf(k.followee).followers.Add(1)
	return true, nil
}

func (r *memoryRepository) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	k := edgeKey{follower: followerID, followee: followeeID}

	mu := r.stripe(k)
	mu.Lock()
	defer mu.Unlock()

	if _, loaded := r.edges.LoadAndDelete(k); !loaded {
		return false, nil
	}
	r.countersOf(followerID).following.Add(-1)
	r.countersOf(followeeID).followers.Add(-1)
	return true, nil
}

func (r *memoryRepository) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	_, ok := r.edges.Load(edgeKey{follower: followerID, followee: followeeID})
	return ok, nil
}

func (r *memoryRepository) collect(keep func(edgeKey) bool) []*model.Follow {
	var out []*model.Follow
	r.edges.Range(func(key, value interface{}) bool {
		if keep(key.(edgeKey)) {
			f := *value.(*model.Follow)
			out = append(out, &f)
		}
		return true
	})
	return out
}

func (r *memoryRepository) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	edges := r.collect(func(k edgeKey) bool { return k.follower == followerID })
	sortNewestFirst(edges, func(f *model.Follow) uuid.UUID { return f.FolloweeID })

	ids := make([]uuid.UUID, 0, len(edges))
	for _, f := range edges {
		ids = append(ids, f.FolloweeID)
	}
	return ids, nil
}

func (r *memoryRepository) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Follow, error) {
	edges := r.collect(func(k edgeKey) bool { return k.followee == userID })
	sortNewestFirst(edges, func(f *model.Follow) uuid.UUID { return f.FollowerID })
	return paginate(edges, limit, offset), nil
}

func (r *memoryRepository) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Follow, error) {
	edges := r.collect(func(k edgeKey) bool { return k.follower == userID })
	sortNewestFirst(edges, func(f *model.Follow) uuid.UUID { return f.FolloweeID })
	return paginate(edges, limit, offset), nil
}

func sortNewestFirst(edges []*model.Follow, other func(*model.Follow) uuid.UUID) {
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].CreatedAt.Equal(edges[j].CreatedAt) {
			return edges[i].CreatedAt.After(edges[j].CreatedAt)
		}
		a, b := other(edges[i]), other(edges[j])
		return bytes.Compare(a[:], b[:]) < 0
	})
}

func paginate(edges []*model.Follow, limit, offset int) []*model.Follow {
	if offset >= len(edges) {
		return []*model.Follow{}
	}
	end := len(edges)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return edges[offset:end]
}

func (r *memoryRepository) Counts(ctx context.Context, userID uuid.UUID) (*model.Stats, error) {
	stats := &model.Stats{UserID: userID}
	if v, ok := r.counters.Load(userID); ok {
		c := v.(*counters)
		stats.FollowersCount = c.followers.Load()
		stats.FollowingCount = c.following.Load()
	}
	return stats, nil
}

func (r *memoryRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	for i := range r.stripes {
		r.stripes[i].Lock()
	}
	defer func() {
		for i := range r.stripes {
			r.stripes[i].Unlock()
		}
	}()

	type pair struct{ followers, following int64 }
	actual := make(map[uuid.UUID]pair)
	r.edges.Range(func(key, _ interface{}) bool {
		k := key.(edgeKey)
		p := actual[k.followee]
		p.followers++
		actual[k.followee] = p
		p = actual[k.follower]
		p.following++
		actual[k.follower] = p
		return true
	})

	var fixed int64
	r.counters.Range(func(key, value interface{}) bool {
		id := key.(uuid.UUID)
		c := value.(*counters)
		want := actual[id]
		if c.followers.Load() != want.followers || c.following.Load() != want.following {
			c.followers.Store(want.followers)
			c.following.Store(want.following)
			fixed++
		}
		delete(actual, id)
		return true
	})
	for id, want := range actual {
		c := r.countersOf(id)
		c.followers.Store(want.followers)
		c.following.Store(want.following)
		fixed++
	}
	return fixed, nil
}

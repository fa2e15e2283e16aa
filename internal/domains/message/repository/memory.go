package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/message/model"
)

type memoryRepository struct {
	mu       sync.RWMutex
	messages []*model.Message
}

// NewMemoryRepository returns a process-local message store.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(ctx context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *msg
	r.messages = append(r.messages, &m)
	return nil
}

// after orders messages by (created_at, id), matching the Postgres store.
func after(a, b *model.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

type threadKey struct {
	listingID uuid.UUID
	otherID   uuid.UUID
}

func (r *memoryRepository) Conversations(ctx context.Context, userID uuid.UUID, limit int) ([]model.ConversationSummary, error) {
	type thread struct {
		last   *model.Message
		unread int64
	}

	r.mu.RLock()
	threads := make(map[threadKey]*thread)
	for _, m := range r.messages {
		var other uuid.UUID
		switch userID {
		case m.SenderID:
			other = m.ReceiverID
		case m.ReceiverID:
			other = m.SenderID
		default:
			continue
		}

		key := threadKey{listingID: m.ListingID, otherID: other}
		t, ok := threads[key]
		if !ok {
			t = &thread{last: m}
			threads[key] = t
		} else if after(m, t.last) {
			t.last = m
		}
		if m.ReceiverID == userID && !m.Read {
			t.unread++
		}
	}

	out := make([]model.ConversationSummary, 0, len(threads))
	for key, t := range threads {
		out = append(out, model.ConversationSummary{
			ListingID:     key.listingID,
			OtherUserID:   key.otherID,
			LastMessage:   t.last.Content,
			LastMessageAt: t.last.CreatedAt,
			UnreadCount:   t.unread,
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].LastMessageAt.After(out[j].LastMessageAt)
		}
		if out[i].ListingID != out[j].ListingID {
			return out[i].ListingID.String() < out[j].ListingID.String()
		}
		return out[i].OtherUserID.String() < out[j].OtherUserID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func between(m *model.Message, a, b, listingID uuid.UUID) bool {
	if m.ListingID != listingID {
		return false
	}
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (r *memoryRepository) Thread(
	ctx context.Context,
	userID, otherID, listingID uuid.UUID,
	limit, offset int,
) ([]*model.Message, error) {
	r.mu.RLock()
	var out []*model.Message
	for _, m := range r.messages {
		if between(m, userID, otherID, listingID) {
			c := *m
			out = append(out, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return after(out[j], out[i]) })

	if offset >= len(out) {
		return []*model.Message{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepository) MarkRead(ctx context.Context, readerID, otherID, listingID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, m := range r.messages {
		if m.ListingID == listingID && m.SenderID == otherID && m.ReceiverID == readerID && !m.Read {
			m.Read = true
			changed++
		}
	}
	return changed, nil
}

func (r *memoryRepository) CountByParticipants(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	wanted := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	for _, m := range r.messages {
		if _, ok := wanted[m.SenderID]; ok {
			counts[m.SenderID]++
		}
		if _, ok := wanted[m.ReceiverID]; ok && m.ReceiverID != m.SenderID {
			counts[m.ReceiverID]++
		}
	}
	return counts, nil
}

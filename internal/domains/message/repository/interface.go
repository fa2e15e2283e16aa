package repository

import (
	"context"

	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/message/model"
)

// Repository is the message store.
type Repository interface {
	Create(ctx context.Context, msg *model.Message) error
	// Conversations groups userID's messages by (listing, other user), most
	// recent thread first, at most limit threads.
	Conversations(ctx context.Context, userID uuid.UUID, limit int) ([]model.ConversationSummary, error)
	// Thread returns the messages between userID and otherID about listingID,
	// oldest first.
	Thread(ctx context.Context, userID, otherID, listingID uuid.UUID, limit, offset int) ([]*model.Message, error)
	// MarkRead flags every message otherID sent readerID about listingID as
	// read and returns how many changed.
	MarkRead(ctx context.Context, readerID, otherID, listingID uuid.UUID) (int64, error)
	// CountByParticipants counts messages each user sent or received.
	CountByParticipants(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

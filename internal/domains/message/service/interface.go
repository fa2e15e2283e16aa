package service

import (
	"context"

	"github.com/google/uuid"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/message/model"
	userModel "poultry-market-backend/internal/domains/user/model"
)

type ServiceInterface interface {
	// Send stores a message from senderID. One side of every message must
	// be the listing's seller.
	Send(ctx context.Context, senderID uuid.UUID, req model.SendMessageRequest) (*model.Message, error)
	// Conversations lists userID's threads, most recent first.
	Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error)
	// Thread returns the messages between userID and otherID about
	// listingID, oldest first, and marks those sent to userID as read.
	Thread(ctx context.Context, userID, otherID, listingID uuid.UUID, limit, offset int) ([]*model.Message, error)
}

// ListingLookup resolves the listing a message is about.
type ListingLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*listingModel.Listing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*listingModel.Listing, error)
}

// UserDirectory resolves message participants.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*userModel.User, error)
}

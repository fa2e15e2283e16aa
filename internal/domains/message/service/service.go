package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/message/model"
	"poultry-market-backend/internal/domains/message/repository"
	"poultry-market-backend/internal/infrastructure/messaging"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/logger"
)

const (
	maxConversations = 100

	defaultThreadLimit = 50
	maxThreadLimit     = 200

	unknownListing = "Unknown Listing"
	unknownUser    = "Unknown User"
)

type messageService struct {
	repo      repository.Repository
	listings  ListingLookup
	users     UserDirectory
	publisher messaging.Publisher
	now       func() time.Time
}

func NewMessageService(
	repo repository.Repository,
	listings ListingLookup,
	users UserDirectory,
	publisher messaging.Publisher,
) ServiceInterface {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &messageService{
		repo:      repo,
		listings:  listings,
		users:     users,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, req model.SendMessageRequest) (*model.Message, error) {
	req.Content = strings.TrimSpace(req.Content)
	req.ReceiverID = strings.TrimSpace(req.ReceiverID)
	req.ListingID = strings.TrimSpace(req.ListingID)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidMessageError(err)
	}
	receiverID := uuid.MustParse(req.ReceiverID)
	listingID := uuid.MustParse(req.ListingID)

	if receiverID == senderID {
		return nil, model.NewSelfMessageError()
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, listingModel.ErrListingNotFound) {
			return nil, model.NewListingNotFoundError()
		}
		return nil, model.NewLookupsUnavailableError(err)
	}
	// Deactivated listings stay messageable so open threads can finish.
	if listing.SellerID != senderID && listing.SellerID != receiverID {
		return nil, model.NewNotListingPartyError()
	}

	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, model.NewLookupsUnavailableError(err)
	}
	if !exists {
		return nil, model.NewReceiverNotFoundError()
	}

	msg := &model.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Content:    req.Content,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}

	if err := s.publisher.Publish(ctx, shared.EventMessageSent, msg); err != nil {
		logger.Warn("failed to publish message event", err)
	}
	return msg, nil
}

func (s *messageService) Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error) {
	summaries, err := s.repo.Conversations(ctx, userID, maxConversations)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}
	if len(summaries) == 0 {
		return []model.Conversation{}, nil
	}

	listingIDs := make([]uuid.UUID, 0, len(summaries))
	userIDs := make([]uuid.UUID, 0, len(summaries))
	for _, sum := range summaries {
		listingIDs = append(listingIDs, sum.ListingID)
		userIDs = append(userIDs, sum.OtherUserID)
	}

	listings, err := s.listings.GetByIDs(ctx, listingIDs)
	if err != nil {
		return nil, model.NewLookupsUnavailableError(err)
	}
	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, model.NewLookupsUnavailableError(err)
	}

	conversations := make([]model.Conversation, len(summaries))
	for i, sum := range summaries {
		c := model.Conversation{
			ID:              model.ConversationID(sum.ListingID, sum.OtherUserID),
			ListingID:       sum.ListingID,
			ListingTitle:    unknownListing,
			OtherUserID:     sum.OtherUserID,
			OtherUserName:   unknownUser,
			LastMessage:     sum.LastMessage,
			LastMessageTime: sum.LastMessageAt,
			UnreadCount:     sum.UnreadCount,
		}
		if l, ok := listings[sum.ListingID]; ok {
			c.ListingTitle = l.Title
		}
		if u, ok := users[sum.OtherUserID]; ok {
			c.OtherUserName = u.Name
		}
		conversations[i] = c
	}
	return conversations, nil
}

func (s *messageService) Thread(
	ctx context.Context,
	userID, otherID, listingID uuid.UUID,
	limit, offset int,
) ([]*model.Message, error) {
	if limit <= 0 {
		limit = defaultThreadLimit
	}
	if limit > maxThreadLimit {
		limit = maxThreadLimit
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.repo.Thread(ctx, userID, otherID, listingID, limit, offset)
	if err != nil {
		return nil, model.NewStoreUnavailableError(err)
	}

	// Read receipts are best effort; the thread is still returned.
	marked, err := s.repo.MarkRead(ctx, userID, otherID, listingID)
	if err != nil {
		logger.Warn("failed to mark messages read", err)
		return messages, nil
	}
	if marked > 0 {
		logger.Debug("messages marked read", map[string]interface{}{
			"reader_id":  userID.String(),
			"listing_id": listingID.String(),
			"marked":     marked,
		})
	}
	return messages, nil
}

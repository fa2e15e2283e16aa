package model

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const MaxContentLength = 2000

// Message is one note between a buyer and a seller about a listing.
type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationSummary is the store's view of one (listing, other user)
// thread as seen by a participant.
type ConversationSummary struct {
	ListingID     uuid.UUID
	OtherUserID   uuid.UUID
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int64
}

// Conversation is a ConversationSummary joined with listing and user names.
type Conversation struct {
	ID              string    `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	ListingTitle    string    `json:"listing_title"`
	OtherUserID     uuid.UUID `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
}

// ConversationID identifies a thread from the caller's side as
// "<listing>_<other user>".
func ConversationID(listingID, otherUserID uuid.UUID) string {
	return fmt.Sprintf("%s_%s", listingID, otherUserID)
}

// SendMessageRequest - POST /messages
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	ListingID  string `json:"listing_id"`
	Content    string `json:"content"`
}

func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReceiverID, validation.Required, is.UUID),
		validation.Field(&r.ListingID, validation.Required, is.UUID),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(1, MaxContentLength)),
	)
}

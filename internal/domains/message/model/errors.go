package model

import "poultry-market-backend/internal/shared/apperror"

const (
	ErrCodeInvalidMessage     = "INVALID_MESSAGE"
	ErrCodeSelfMessage        = "SELF_MESSAGE"
	ErrCodeNotListingParty    = "NOT_LISTING_PARTY"
	ErrCodeListingNotFound    = "LISTING_NOT_FOUND"
	ErrCodeReceiverNotFound   = "RECEIVER_NOT_FOUND"
	ErrCodeForeignInbox       = "FOREIGN_INBOX"
	ErrCodeStoreUnavailable   = "MESSAGE_STORE_UNAVAILABLE"
	ErrCodeLookupsUnavailable = "MESSAGE_LOOKUPS_UNAVAILABLE"
)

func NewInvalidMessageError(err error) *apperror.AppError {
	return apperror.Wrap(apperror.KindValidation, ErrCodeInvalidMessage, err.Error(), err)
}

func NewSelfMessageError() *apperror.AppError {
	return apperror.Validation(ErrCodeSelfMessage, "You cannot message yourself")
}

// NewNotListingPartyError is returned when neither side of a message owns the listing.
func NewNotListingPartyError() *apperror.AppError {
	return apperror.Validation(ErrCodeNotListingParty, "Messages must be between the listing's seller and another user")
}

func NewListingNotFoundError() *apperror.AppError {
	return apperror.NotFound(ErrCodeListingNotFound, "Listing not found")
}

func NewReceiverNotFoundError() *apperror.AppError {
	return apperror.NotFound(ErrCodeReceiverNotFound, "Receiver not found")
}

func NewForeignInboxError() *apperror.AppError {
	return apperror.Forbidden(ErrCodeForeignInbox, "You can only read your own conversations")
}

func NewStoreUnavailableError(err error) *apperror.AppError {
	return apperror.Unavailable(ErrCodeStoreUnavailable, "Message store unavailable", err)
}

func NewLookupsUnavailableError(err error) *apperror.AppError {
	return apperror.Unavailable(ErrCodeLookupsUnavailable, "Listing or user directory unavailable", err)
}

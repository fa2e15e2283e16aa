package model

import (
	"errors"

	"poultry-market-backend/internal/shared/apperror"
)

const (
	ErrCodeListingNotFound  = "LISTING_NOT_FOUND"
	ErrCodeInvalidListing   = "INVALID_LISTING"
	ErrCodeNotListingOwner  = "NOT_LISTING_OWNER"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
)

var ErrListingNotFound = errors.New("listing not found")

func NewListingNotFoundError() *apperror.AppError {
	return apperror.Wrap(apperror.KindNotFound, ErrCodeListingNotFound, "Listing not found", ErrListingNotFound)
}

func NewInvalidListingError(err error) *apperror.AppError {
	return apperror.Wrap(apperror.KindValidation, ErrCodeInvalidListing, err.Error(), err)
}

func NewNotOwnerError() *apperror.AppError {
	return apperror.Forbidden(ErrCodeNotListingOwner, "Only the seller or an admin can change this listing")
}

// NewStoreUnavailableError reports a failed listing store call. Callers may
// retry with backoff.
func NewStoreUnavailableError(err error) *apperror.AppError {
	return apperror.Unavailable(ErrCodeStoreUnavailable, "Listing store unavailable", err)
}

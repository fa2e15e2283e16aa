package model

import (
	"poultry-market-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeSelfFollow       = "SELF_FOLLOW"
	ErrCodeStoreUnavailable = "FOLLOW_STORE_UNAVAILABLE"
)

func NewSelfFollowError() *apperror.AppError {
	return apperror.Conflict(ErrCodeSelfFollow, "You cannot follow yourself")
}

func NewStoreUnavailableError(err error) *apperror.AppError {
	return apperror.Unavailable(ErrCodeStoreUnavailable, "Follow graph unavailable", err)
}

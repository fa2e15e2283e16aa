package model

import (
	"errors"

	"poultry-market-backend/internal/shared/apperror"
)

// Error codes
const (
	ErrCodeSelfRating         = "SELF_RATING"
	ErrCodeAlreadyRated       = "ALREADY_RATED"
	ErrCodeInvalidRating      = "INVALID_RATING"
	ErrCodeRatingsUnavailable = "RATINGS_UNAVAILABLE"
)

var ErrAlreadyRated = errors.New("already rated")

func NewSelfRatingError() *apperror.AppError {
	return apperror.Validation(ErrCodeSelfRating, "You cannot rate yourself")
}

func NewAlreadyRatedError() *apperror.AppError {
	return apperror.Wrap(apperror.KindConflict, ErrCodeAlreadyRated, "You have already rated this seller for this listing", ErrAlreadyRated)
}

func NewInvalidRatingError(err error) *apperror.AppError {
	return apperror.Wrap(apperror.KindValidation, ErrCodeInvalidRating, err.Error(), err)
}

func NewRatingsUnavailableError(err error) *apperror.AppError {
	return apperror.Unavailable(ErrCodeRatingsUnavailable, "Rating service unavailable", err)
}

package model

import (
	"errors"

	"poultry-market-backend/internal/shared/apperror"
)

const (
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeDirectoryUnavailable = "USER_DIRECTORY_UNAVAILABLE"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

func NewUserNotFoundError() *apperror.AppError {
	return apperror.Wrap(apperror.KindNotFound, ErrCodeUserNotFound, "User not found", ErrUserNotFound)
}

func NewDirectoryUnavailableError(err error) *apperror.AppError {
	return apperror.Unavailable(ErrCodeDirectoryUnavailable, "User directory unavailable", err)
}

const ErrCodeInvalidProfile = "INVALID_PROFILE"

func NewInvalidProfileError(err error) *apperror.AppError {
	return apperror.Wrap(apperror.KindValidation, ErrCodeInvalidProfile, err.Error(), err)
}

const ErrCodeEmailTaken = "EMAIL_TAKEN"

func NewEmailTakenError() *apperror.AppError {
	return apperror.Wrap(apperror.KindConflict, ErrCodeEmailTaken, "Email is already registered", ErrEmailTaken)
}

const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidLogin       = "INVALID_LOGIN_REQUEST"
)

// NewInvalidCredentialsError does not say whether the email or the password was wrong.
func NewInvalidCredentialsError() *apperror.AppError {
	return apperror.New(apperror.KindUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password")
}

func NewInvalidLoginError(err error) *apperror.AppError {
	return apperror.Wrap(apperror.KindValidation, ErrCodeInvalidLogin, err.Error(), err)
}

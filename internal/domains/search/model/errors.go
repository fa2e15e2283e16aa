package model

import (
	"fmt"

	"poultry-market-backend/internal/shared/apperror"
)

const (
	ErrCodeInvalidRange    = "INVALID_RANGE"
	ErrCodeInvalidCategory = "INVALID_CATEGORY"
	ErrCodeInvalidNumber   = "INVALID_NUMBER"
	ErrCodeInvalidSort     = "INVALID_SORT"
	ErrCodeInvalidParam    = "INVALID_PARAMETER"
)

func NewInvalidRangeError(field string, min, max string) *apperror.AppError {
	return apperror.Validation(ErrCodeInvalidRange,
		fmt.Sprintf("min_%s (%s) must not exceed max_%s (%s)", field, min, field, max))
}

func NewInvalidCategoryError(raw string) *apperror.AppError {
	return apperror.Validation(ErrCodeInvalidCategory,
		fmt.Sprintf("unknown category %q", raw))
}

func NewInvalidNumberError(field, raw string) *apperror.AppError {
	return apperror.Validation(ErrCodeInvalidNumber,
		fmt.Sprintf("%s must be a number, got %q", field, raw))
}

func NewInvalidSortError(field, raw string) *apperror.AppError {
	return apperror.Validation(ErrCodeInvalidSort,
		fmt.Sprintf("unsupported %s %q", field, raw))
}

func NewInvalidParamError(err error) *apperror.AppError {
	return apperror.Wrap(apperror.KindValidation, ErrCodeInvalidParam, err.Error(), err)
}

func NewMaxDaysOldError(days int) *apperror.AppError {
	return apperror.Validation(ErrCodeInvalidParam,
		fmt.Sprintf("max_days_old must be between 0 and %d, got %d", MaxDaysOldLimit, days))
}

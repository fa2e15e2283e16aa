package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateRatingRequest request to rate a seller
type CreateRatingRequest struct {
	SellerID  uuid.UUID  `json:"seller_id"`
	ListingID *uuid.UUID `json:"listing_id,omitempty"`
	Stars     int        `json:"stars"`
	Comment   string     `json:"comment"`
}

func (r CreateRatingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SellerID, validation.By(requiredUUID)),
		validation.Field(&r.Stars, validation.Required, validation.Min(MinStars), validation.Max(MaxStars)),
		validation.Field(&r.Comment, validation.Length(0, 1000)),
	)
}

func requiredUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
}

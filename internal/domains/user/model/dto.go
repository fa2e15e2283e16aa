package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// UpdateProfileRequest creates or updates the caller's directory entry.
type UpdateProfileRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Location string  `json:"location"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.EmailFormat),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Length(0, 20)),
		validation.Field(&r.Location, validation.Length(0, 200)),
	)
}

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

// RegisterRequest - POST /auth/register
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone,omitempty"`
	Location string  `json:"location"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.EmailFormat),
		// bcrypt ignores input past 72 bytes.
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 72).Error("password must be 8-72 characters"),
			validation.Match(hasLetter).Error("password must contain a letter"),
			validation.Match(hasDigit).Error("password must contain a number"),
		),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Length(0, 20)),
		validation.Field(&r.Location, validation.Length(0, 200)),
	)
}

// LoginRequest - POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	User      *User     `json:"user"`
}

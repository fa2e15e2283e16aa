package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace member. Buyers and sellers share the same record;
// a seller is simply a user who owns listings.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Location  string    `json:"location"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	// PasswordHash is empty for directory entries created through
	// PUT /users/me; such users cannot log in.
	PasswordHash string `json:"-"`
}

// UserSummary is the public projection used in follower lists.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Location: u.Location}
}

// AdminUserView is a user with the activity counts shown to admins.
type AdminUserView struct {
	*User
	ListingCount int64 `json:"listing_count"`
	MessageCount int64 `json:"message_count"`
}

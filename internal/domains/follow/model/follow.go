package model

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: FollowerID follows FolloweeID.
type Follow struct {
	FollowerID uuid.UUID `json:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats are the denormalized counters of one user. IsFollowing is set only
// when the request carries a viewer.
type Stats struct {
	UserID         uuid.UUID `json:"user_id"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	IsFollowing    *bool     `json:"is_following,omitempty"`
}

// Connection is one entry of a followers or following list.
type Connection struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowEvent is published on follow.created and follow.removed.
type FollowEvent struct {
	FollowerID uuid.UUID `json:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReconcileCountersPayload is the asynq payload of follow:reconcile_counters.
type ReconcileCountersPayload struct {
	Trigger     string `json:"trigger"`
	RequestedBy string `json:"requested_by,omitempty"`
}

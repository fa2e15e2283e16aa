package shared

// Background task types (asynq).
const (
	TypeReconcileFollowCounters = "follow:reconcile_counters"
)

// Queues
const (
	QueueDefault     = "default"
	QueueMaintenance = "low"
)

// Domain event subjects (NATS).
const (
	EventListingCreated     = "listing.created"
	EventListingDeactivated = "listing.deactivated"
	EventFollowCreated      = "follow.created"
	EventFollowRemoved      = "follow.removed"
	EventRatingCreated      = "rating.created"
	EventMessageSent        = "message.sent"
)

// Gin context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextRequestID = "request_id"
)

package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventCommentAdded         EventType = "comment_added"
	EventItemRequestCreated   EventType = "item_request_created"
	EventItemCreated          EventType = "item_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ItemID  int64     `json:"item_id"`
	OwnerID int64     `json:"owner_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	ItemID    int64  `json:"item_id"`
	BookerID  int64  `json:"booker_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	ItemID      int64  `json:"item_id"`
	TextPreview string `json:"text_preview"`
}

// ItemRequestCreatedPayload payload.
type ItemRequestCreatedPayload struct {
	Description string `json:"description"`
}

// ItemCreatedPayload payload.
type ItemCreatedPayload struct {
	Name      string `json:"name"`
	RequestID *int64 `json:"request_id,omitempty"`
}

// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event type values.
const (
	EventWorkshop     = "Workshop"
	EventSeminar      = "Seminar"
	EventCompetition  = "Competition"
	EventAnnouncement = "Announcement"
)

// IsValidEventType reports whether t is a known event type.
func IsValidEventType(t string) bool {
	switch t {
	case EventWorkshop, EventSeminar, EventCompetition, EventAnnouncement:
		return true
	}
	return false
}

// Event belongs to exactly one association. RegisteredUserIDs is a
// denormalized mirror of the event_registrations collection, which is
// the authoritative record (one row per user-event pair, unique).
// Archiving removes the event from public listings without deleting it.
type Event struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title             string               `bson:"title" json:"title"`
	Description       string               `bson:"description" json:"description"`
	Image             string               `bson:"image,omitempty" json:"image,omitempty"`
	Type              string               `bson:"type" json:"type"`
	Date              time.Time            `bson:"date" json:"date"`
	Location          string               `bson:"location,omitempty" json:"location,omitempty"`
	AssociationID     primitive.ObjectID   `bson:"association_id" json:"association_id"`
	RegisteredUserIDs []primitive.ObjectID `bson:"registered_user_ids,omitempty" json:"registered_user_ids,omitempty"`
	IsArchived        bool                 `bson:"is_archived" json:"is_archived"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EventRegistration is the authoritative join row for a user attending
// an event.
type EventRegistration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

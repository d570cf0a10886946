// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join-request states. A request moves pending → accepted or
// pending → rejected and never leaves a terminal state; cancelling and
// member removal both record rejected.
const (
	JoinRequestPending  = "pending"
	JoinRequestAccepted = "accepted"
	JoinRequestRejected = "rejected"
)

// JoinRequest tracks the membership-request lifecycle between a user
// and a team. At most one active (pending or accepted) request exists
// per (user, team) pair; the history of rejected requests is kept.
type JoinRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	TeamID      primitive.ObjectID `bson:"team_id" json:"team_id"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}

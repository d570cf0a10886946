// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values.
const (
	ProjectInProgress = "In Progress"
	ProjectCompleted  = "Completed"
	ProjectArchived   = "Archived"
)

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectInProgress, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Project belongs to exactly one team. Likes is a set of user ids kept
// with $addToSet/$pull.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	TitleCI     string               `bson:"title_ci" json:"-"`
	Description string               `bson:"description" json:"description"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	Link        string               `bson:"link,omitempty" json:"link,omitempty"`
	TeamID      primitive.ObjectID   `bson:"team_id" json:"team_id"`
	Tags        []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Status      string               `bson:"status" json:"status"`
	Likes       []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LikeCount returns the number of distinct users who liked the project.
func (p *Project) LikeCount() int { return len(p.Likes) }

// internal/domain/models/team.go
package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role-in-team strings stored on the embedded members list.
const (
	TeamRoleLeader = "Leader"
	TeamRoleMember = "Member"
)

// TeamMember is one entry in a team's embedded members list.
type TeamMember struct {
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	RoleInTeam string             `bson:"role_in_team" json:"role_in_team"`
}

// TeamRating is one user's score for a team. At most one per rater;
// re-rating overwrites the previous score.
type TeamRating struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Score  int                `bson:"score" json:"score"` // 1..5
}

// Team is a student group led by exactly one user. ProjectIDs is the
// denormalized list of owned projects, kept in sync by the project
// handlers.
type Team struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Avatar      string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	LeaderID    primitive.ObjectID   `bson:"leader_id" json:"leader_id"`
	Members     []TeamMember         `bson:"members" json:"members"`
	ProjectIDs  []primitive.ObjectID `bson:"project_ids,omitempty" json:"project_ids,omitempty"`
	Ratings     []TeamRating         `bson:"ratings,omitempty" json:"ratings,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AverageRating returns the mean score rounded to one decimal place,
// or 0 when the team has no ratings.
func (t *Team) AverageRating() float64 {
	if len(t.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range t.Ratings {
		sum += r.Score
	}
	avg := float64(sum) / float64(len(t.Ratings))
	return math.Round(avg*10) / 10
}

// HasMember reports whether userID appears in the members list.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

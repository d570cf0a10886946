// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkExperience is one entry in a profile's work history.
type WorkExperience struct {
	Company  string `bson:"company" json:"company"`
	Position string `bson:"position" json:"position"`
	Duration string `bson:"duration" json:"duration"`
}

// SocialLinks holds optional profile links.
type SocialLinks struct {
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
}

// Profile is the 1:1 biographical extension of a User. Exactly one
// document per user_id. TeamIDs is a denormalized convenience copy of
// the teams the user belongs to.
type Profile struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID   `bson:"user_id" json:"user_id"`
	FullName       string               `bson:"full_name" json:"full_name"`
	FullNameCI     string               `bson:"full_name_ci" json:"-"`
	Avatar         string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	FieldOfStudy   string               `bson:"field_of_study,omitempty" json:"field_of_study,omitempty"`
	Bio            string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills         []string             `bson:"skills,omitempty" json:"skills,omitempty"`
	WorkExperience []WorkExperience     `bson:"work_experience,omitempty" json:"work_experience,omitempty"`
	SocialLinks    SocialLinks          `bson:"social_links,omitempty" json:"social_links"`
	TeamIDs        []primitive.ObjectID `bson:"team_ids,omitempty" json:"team_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment target model names.
const (
	CommentTargetProject = "Project"
	CommentTargetEvent   = "Event"
)

// IsValidCommentTarget reports whether m names a commentable model.
func IsValidCommentTarget(m string) bool {
	return m == CommentTargetProject || m == CommentTargetEvent
}

// Comment is polymorphic: the target is identified by the
// (TargetID, TargetModel) pair.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text        string             `bson:"text" json:"text"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	TargetID    primitive.ObjectID `bson:"target_id" json:"target_id"`
	TargetModel string             `bson:"target_model" json:"target_model"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

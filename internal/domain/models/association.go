// internal/domain/models/association.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Association is a named student organization with exactly one manager.
// The manager's User.Role mirrors this authority: creating an
// association promotes the manager to association_manager, and deleting
// it (or reassigning the manager) demotes the old manager back to user.
type Association struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	ManagerID   primitive.ObjectID `bson:"manager_id" json:"manager_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values a user can hold. The role is authoritative for
// authorization decisions and is mutated as a side effect of domain
// actions (creating a team, being made an association manager).
const (
	RoleUser               = "user"
	RoleTeamLead           = "team_lead"
	RoleAssociationManager = "association_manager"
	RoleAdmin              = "admin"
)

// IsValidRole reports whether role is one of the four known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleTeamLead, RoleAssociationManager, RoleAdmin:
		return true
	}
	return false
}

// User is the credential holder. Biographical data lives on Profile;
// the profiles collection is keyed by user_id.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the projection of User that is safe to return to any
// authenticated caller.
type PublicUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Role     string             `bson:"role" json:"role"`
}

// Public strips the credential fields from a User.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// UserCtx returns the user's role (lowercased), Mongo ObjectID, and a found flag.
// If no user is present in context, it returns "", NilObjectID, false.
// This ensures callers can trust that ok=true means a valid, authenticated user.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	return strings.ToLower(p.Role), p.UserID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsTeamLead reports whether the current request's user is a team lead.
func IsTeamLead(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleTeamLead
}

// IsAssociationManager reports whether the current request's user manages
// an association.
func IsAssociationManager(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleAssociationManager
}

// IsSelfOrAdmin reports whether the current user is the given user or an
// admin. Used for routes where users manage their own records but admins
// can manage anyone's.
func IsSelfOrAdmin(r *http.Request, userID primitive.ObjectID) bool {
	role, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return uid == userID || role == models.RoleAdmin
}

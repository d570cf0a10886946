// internal/app/policy/teampolicy/teampolicy.go
package teampolicy

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// CanManageTeam reports whether the current request user can manage the
// team with the given leader:
// - Admins always can
// - The team's own leader can
// Membership alone never grants management rights.
func CanManageTeam(r *http.Request, leaderID primitive.ObjectID) bool {
	role, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return uid == leaderID
}

// internal/app/policy/projectpolicy/projectpolicy.go
package projectpolicy

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// CanManageProject reports whether the current request user can edit or
// delete a project owned by the given team:
// - Admins always can
// - The owning team's leader can
// Returns an error only if the database check fails.
func CanManageProject(ctx context.Context, db *mongo.Database, r *http.Request, teamID primitive.ObjectID) (bool, error) {
	role, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == models.RoleAdmin {
		return true, nil
	}

	t, err := teamstore.New(db).GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return t.LeaderID == uid, nil
}

// internal/app/policy/eventpolicy/eventpolicy.go
package eventpolicy

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	associationstore "github.com/campuslink-io/campuslink/internal/app/store/associations"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// CanManageEvents reports whether the current request user can create,
// edit, archive, or delete events for the given association:
// - Admins always can
// - The association's manager can
// Returns an error only if the database check fails, so callers can
// distinguish "not authorized" (false, nil) from "database error".
func CanManageEvents(ctx context.Context, db *mongo.Database, r *http.Request, associationID primitive.ObjectID) (bool, error) {
	role, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == models.RoleAdmin {
		return true, nil
	}
	if role != models.RoleAssociationManager {
		return false, nil
	}

	a, err := associationstore.New(db).GetByID(ctx, associationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return a.ManagerID == uid, nil
}

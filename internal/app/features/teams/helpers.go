// internal/app/features/teams/helpers.go
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/policy/teampolicy"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// teamUserParams parses the {teamID} and second-user URL params,
// writing the 400 itself when either is malformed.
func (h *Handler) teamUserParams(w http.ResponseWriter, r *http.Request, userParam string) (teamID, userID primitive.ObjectID, ok bool) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teamID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	userID, err = primitive.ObjectIDFromHex(chi.URLParam(r, userParam))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id.")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return teamID, userID, true
}

// loadManagedTeam loads a team and verifies the caller may manage it,
// writing the 404/403/500 itself when not. The ownership check runs
// before any mutation in the calling handler.
func (h *Handler) loadManagedTeam(ctx context.Context, w http.ResponseWriter, r *http.Request, teamID primitive.ObjectID) (models.Team, bool) {
	t, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Team not found.")
			return models.Team{}, false
		}
		h.Log.Error("get team failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return models.Team{}, false
	}
	if !teampolicy.CanManageTeam(r, t.LeaderID) {
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can do this.")
		return models.Team{}, false
	}
	return t, true
}

// internal/app/features/teams/delete.go
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
	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// HandleDelete deletes a team and cascades to everything that only
// makes sense with the team present: its projects (and their comment
// threads), its join requests, and the profile references. The
// leader's account role is left as is.
//
// Route: DELETE /api/teams/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := teamstore.New(h.DB)
	t, err := store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Team not found.")
			return
		}
		h.Log.Error("get team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}
	if !teampolicy.CanManageTeam(r, t.LeaderID) {
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can delete the team.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		projects, err := projectstore.New(h.DB).ListByTeam(ctx, oid)
		if err != nil {
			return err
		}
		comments := commentstore.New(h.DB)
		for _, p := range projects {
			if _, err := comments.DeleteByTarget(ctx, models.CommentTargetProject, p.ID); err != nil {
				return err
			}
		}
		if _, err := projectstore.New(h.DB).DeleteByTeam(ctx, oid); err != nil {
			return err
		}
		if _, err := joinrequeststore.New(h.DB).DeleteByTeam(ctx, oid); err != nil {
			return err
		}
		if err := profilestore.New(h.DB).RemoveTeamFromAll(ctx, oid); err != nil {
			return err
		}
		_, err = store.Delete(ctx, oid)
		return err
	})
	if err != nil {
		h.Log.Error("delete team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete team.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Team deleted."})
}

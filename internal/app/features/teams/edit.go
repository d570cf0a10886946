// internal/app/features/teams/edit.go
package teams

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/policy/teampolicy"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

type editRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// HandleEdit updates a team's name, description, and avatar. Only the
// leader (or an admin) may edit; the check runs before any write.
//
// Route: PUT /api/teams/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can edit the team.")
		return
	}

	err = store.UpdateInfo(ctx, oid,
		strings.TrimSpace(req.Name),
		htmlsanitize.Sanitize(req.Description),
		strings.TrimSpace(req.Avatar),
	)
	if err != nil {
		if errors.Is(err, teamstore.ErrDuplicateTeamName) {
			httpjson.Error(w, http.StatusConflict, "A team with this name already exists.")
			return
		}
		h.Log.Error("update team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update team.")
		return
	}

	updated, err := store.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("reload team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}
	v, err := buildView(ctx, h.DB, updated)
	if err != nil {
		httpjson.OK(w, updated)
		return
	}
	httpjson.OK(w, v)
}

// internal/app/features/teams/list.go
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// ServeList returns all teams with leaders and members resolved.
//
// Route: GET /api/teams
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ts, err := teamstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Error("list teams failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load teams.")
		return
	}

	vs, err := buildViews(ctx, h.DB, ts)
	if err != nil {
		h.Log.Error("resolve team users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load teams.")
		return
	}

	httpjson.OK(w, vs)
}

// ServeGet returns one team with its members and projects resolved.
//
// Route: GET /api/teams/{id}
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := teamstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Team not found.")
			return
		}
		h.Log.Error("get team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}

	v, err := buildView(ctx, h.DB, t)
	if err != nil {
		h.Log.Error("resolve team users failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}

	projects, err := projectstore.New(h.DB).ListByTeam(ctx, oid)
	if err != nil {
		h.Log.Error("list team projects failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	httpjson.OK(w, struct {
		teamView
		Projects []models.Project `json:"projects"`
	}{teamView: v, Projects: projects})
}

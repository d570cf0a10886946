// internal/app/features/projects/create.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	TeamID      string   `json:"team_id"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

// HandleCreate creates a project for a team the caller leads. The
// project id is pushed onto the team's denormalized list in the same
// transaction as the insert.
//
// Route: POST /api/projects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		httpjson.Error(w, http.StatusBadRequest, "Title and description are required.")
		return
	}
	teamID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.TeamID))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}
	if req.Status != "" && !models.IsValidProjectStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Unknown project status.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	t, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Team not found.")
			return
		}
		h.Log.Error("get team failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}
	if role != models.RoleAdmin && t.LeaderID != uid {
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can add projects.")
		return
	}

	var created models.Project
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		created, err = projectstore.New(h.DB).Create(ctx, models.Project{
			Title:       req.Title,
			Description: htmlsanitize.Sanitize(req.Description),
			Image:       strings.TrimSpace(req.Image),
			Link:        strings.TrimSpace(req.Link),
			TeamID:      teamID,
			Tags:        req.Tags,
			Status:      req.Status,
		})
		if err != nil {
			return err
		}
		return teamstore.New(h.DB).AddProject(ctx, teamID, created.ID)
	})
	if err != nil {
		h.Log.Error("create project failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create project.")
		return
	}

	httpjson.Created(w, projectView{Project: created, Team: &teamRef{ID: t.ID, Name: t.Name, Avatar: t.Avatar}})
}

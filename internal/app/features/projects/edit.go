// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/policy/projectpolicy"
	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type editRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
}

// HandleEdit updates a project. Only the owning team's leader (or an
// admin) may edit; the check runs before any write.
//
// Route: PUT /api/projects/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid project id.")
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Status != "" && !models.IsValidProjectStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, "Unknown project status.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := projectstore.New(h.DB)
	p, err := store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Project not found.")
			return
		}
		h.Log.Error("get project failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load project.")
		return
	}

	allowed, err := projectpolicy.CanManageProject(ctx, h.DB, r, p.TeamID)
	if err != nil {
		h.Log.Error("project policy check failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not verify permissions.")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Only the owning team's leader can edit this project.")
		return
	}

	err = store.Update(ctx, oid,
		strings.TrimSpace(req.Title),
		htmlsanitize.Sanitize(req.Description),
		strings.TrimSpace(req.Image),
		strings.TrimSpace(req.Link),
		req.Status,
		req.Tags,
	)
	if err != nil {
		h.Log.Error("update project failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update project.")
		return
	}

	updated, err := store.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("reload project failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load project.")
		return
	}
	httpjson.OK(w, projectView{Project: updated, LikeCount: updated.LikeCount()})
}

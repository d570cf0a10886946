// internal/app/features/projects/delete.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/policy/projectpolicy"
	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// HandleDelete removes a project, its comment thread, and its entry on
// the owning team's denormalized list, atomically.
//
// Route: DELETE /api/projects/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid project id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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
		httpjson.Error(w, http.StatusForbidden, "Only the owning team's leader can delete this project.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := commentstore.New(h.DB).DeleteByTarget(ctx, models.CommentTargetProject, oid); err != nil {
			return err
		}
		if err := teamstore.New(h.DB).RemoveProject(ctx, p.TeamID, oid); err != nil {
			return err
		}
		_, err := store.Delete(ctx, oid)
		return err
	})
	if err != nil {
		h.Log.Error("delete project failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete project.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Project deleted."})
}

// internal/app/features/comments/list.go
package comments

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// commentView is a comment with its author resolved.
type commentView struct {
	models.Comment
	Author *models.PublicUser `json:"author,omitempty"`
}

// ServeByTarget returns a target's comments, newest first.
//
// Route: GET /api/comments/{targetModel}/{targetID}
func (h *Handler) ServeByTarget(w http.ResponseWriter, r *http.Request) {
	targetModel := chi.URLParam(r, "targetModel")
	if !models.IsValidCommentTarget(targetModel) {
		httpjson.Error(w, http.StatusBadRequest, "Unknown comment target.")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "targetID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid target id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cs, err := commentstore.New(h.DB).ListByTarget(ctx, targetModel, targetID)
	if err != nil {
		h.Log.Error("list comments failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load comments.")
		return
	}

	vs, err := h.buildViews(ctx, cs)
	if err != nil {
		h.Log.Error("resolve comment authors failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load comments.")
		return
	}
	httpjson.OK(w, vs)
}

// buildViews resolves authors for a batch of comments in one query.
func (h *Handler) buildViews(ctx context.Context, cs []models.Comment) ([]commentView, error) {
	ids := make([]primitive.ObjectID, 0, len(cs))
	seen := make(map[primitive.ObjectID]bool, len(cs))
	for _, cm := range cs {
		if !seen[cm.AuthorID] {
			seen[cm.AuthorID] = true
			ids = append(ids, cm.AuthorID)
		}
	}

	var byID map[primitive.ObjectID]models.PublicUser
	if len(ids) > 0 {
		us, err := userstore.New(h.DB).ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID = make(map[primitive.ObjectID]models.PublicUser, len(us))
		for i := range us {
			byID[us[i].ID] = us[i].Public()
		}
	}

	vs := make([]commentView, 0, len(cs))
	for _, cm := range cs {
		v := commentView{Comment: cm}
		if pu, ok := byID[cm.AuthorID]; ok {
			pu := pu
			v.Author = &pu
		}
		vs = append(vs, v)
	}
	return vs, nil
}

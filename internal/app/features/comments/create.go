// internal/app/features/comments/create.go
package comments

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type createRequest struct {
	Text string `json:"text"`
}

// targetCollections maps a comment target model to the collection that
// must hold the target document.
var targetCollections = map[string]string{
	models.CommentTargetProject: "projects",
	models.CommentTargetEvent:   "events",
}

// HandleCreate posts a comment on a project or event. The target must
// exist; commenting on a deleted target is a 404.
//
// Route: POST /api/comments/{targetModel}/{targetID}
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	targetModel := chi.URLParam(r, "targetModel")
	coll, ok := targetCollections[targetModel]
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "Unknown comment target.")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "targetID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid target id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	text := htmlsanitize.Sanitize(strings.TrimSpace(req.Text))
	if text == "" {
		httpjson.Error(w, http.StatusBadRequest, "Comment text is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.DB.Collection(coll).CountDocuments(ctx, bson.M{"_id": targetID})
	if err != nil {
		h.Log.Error("comment target lookup failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not post comment.")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "Comment target not found.")
		return
	}

	cm, err := commentstore.New(h.DB).Create(ctx, models.Comment{
		Text:        text,
		AuthorID:    uid,
		TargetID:    targetID,
		TargetModel: targetModel,
	})
	if err != nil {
		h.Log.Error("create comment failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not post comment.")
		return
	}

	v := commentView{Comment: cm}
	if u, err := userstore.New(h.DB).GetByID(ctx, uid); err == nil {
		pu := u.Public()
		v.Author = &pu
	}
	httpjson.Created(w, v)
}

// internal/app/features/comments/delete.go
package comments

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// HandleDelete removes a comment. Only its author may delete it.
//
// Route: DELETE /api/comments/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid comment id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := commentstore.New(h.DB)
	cm, err := store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Comment not found.")
			return
		}
		h.Log.Error("get comment failed", zap.Error(err), zap.String("comment_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete comment.")
		return
	}
	if cm.AuthorID != uid {
		httpjson.Error(w, http.StatusForbidden, "Only the author can delete this comment.")
		return
	}

	if _, err := store.Delete(ctx, oid); err != nil {
		h.Log.Error("delete comment failed", zap.Error(err), zap.String("comment_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete comment.")
		return
	}
	httpjson.OK(w, map[string]string{"message": "Comment deleted."})
}

// internal/app/features/profiles/get.go
package profiles

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// ServeByUser returns another user's public profile.
//
// Route: GET /api/profiles/user/{id}
func (h *Handler) ServeByUser(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).GetByUserID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Profile not found.")
			return
		}
		h.Log.Error("get profile failed", zap.Error(err), zap.String("user_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load profile.")
		return
	}

	httpjson.OK(w, p)
}

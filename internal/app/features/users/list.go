// internal/app/features/users/list.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/normalize"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// searchLimit caps search responses so an empty query cannot dump the
// whole collection.
const searchLimit = 50

// ServeList returns every user's public fields.
//
// Route: GET /api/users
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	us, err := userstore.New(h.DB).List(ctx, "", 0)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load users.")
		return
	}

	httpjson.OK(w, publicUsers(us))
}

// ServeSearch returns users whose username or email starts with the
// q parameter.
//
// Route: GET /api/users/search?q=
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(r.URL.Query().Get("q"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	us, err := userstore.New(h.DB).List(ctx, q, searchLimit)
	if err != nil {
		h.Log.Error("search users failed", zap.Error(err), zap.String("q", q))
		httpjson.Error(w, http.StatusInternalServerError, "Search failed.")
		return
	}

	httpjson.OK(w, publicUsers(us))
}

// ServeGet returns one user's public fields.
//
// Route: GET /api/users/{id}
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found.")
			return
		}
		h.Log.Error("get user failed", zap.Error(err), zap.String("user_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load user.")
		return
	}

	httpjson.OK(w, u.Public())
}

func publicUsers(us []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(us))
	for i := range us {
		out = append(out, us[i].Public())
	}
	return out
}

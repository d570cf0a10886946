// internal/app/features/associations/list.go
package associations

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	associationstore "github.com/campuslink-io/campuslink/internal/app/store/associations"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// associationView is the JSON shape for association responses.
type associationView struct {
	models.Association
	Manager *models.PublicUser `json:"manager,omitempty"`
}

// ServeList returns all associations with managers resolved.
//
// Route: GET /api/associations
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	as, err := associationstore.New(h.DB).List(ctx)
	if err != nil {
		h.Log.Error("list associations failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load associations.")
		return
	}

	vs, err := h.buildViews(ctx, as)
	if err != nil {
		h.Log.Error("resolve managers failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load associations.")
		return
	}

	httpjson.OK(w, vs)
}

// ServeGet returns one association with its manager resolved.
//
// Route: GET /api/associations/{id}
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid association id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := associationstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Association not found.")
			return
		}
		h.Log.Error("get association failed", zap.Error(err), zap.String("association_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load association.")
		return
	}

	vs, err := h.buildViews(ctx, []models.Association{a})
	if err != nil {
		h.Log.Error("resolve manager failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load association.")
		return
	}

	httpjson.OK(w, vs[0])
}

// ServeMine returns the association the caller manages, or null when
// they manage none.
//
// Route: GET /api/associations/my-association
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := associationstore.New(h.DB).GetByManager(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.OK(w, nil)
			return
		}
		h.Log.Error("get managed association failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load association.")
		return
	}

	httpjson.OK(w, a)
}

// buildViews resolves managers for a batch of associations with one
// user lookup.
func (h *Handler) buildViews(ctx context.Context, as []models.Association) ([]associationView, error) {
	ids := make([]primitive.ObjectID, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ManagerID)
	}
	us, err := userstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PublicUser, len(us))
	for i := range us {
		byID[us[i].ID] = us[i].Public()
	}

	out := make([]associationView, 0, len(as))
	for _, a := range as {
		v := associationView{Association: a}
		if m, ok := byID[a.ManagerID]; ok {
			v.Manager = &m
		}
		out = append(out, v)
	}
	return out, nil
}

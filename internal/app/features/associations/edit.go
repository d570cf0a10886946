// internal/app/features/associations/edit.go
package associations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	associationstore "github.com/campuslink-io/campuslink/internal/app/store/associations"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type editRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	ManagerID   string `json:"manager_id"`
}

// HandleEdit updates an association. A manager change demotes the old
// manager back to user and promotes the new one, all in one
// transaction with the reassignment.
//
// Route: PUT /api/associations/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid association id.")
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := associationstore.New(h.DB)
	a, err := store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Association not found.")
			return
		}
		h.Log.Error("get association failed", zap.Error(err), zap.String("association_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load association.")
		return
	}

	// Managers may only edit their own association; admins may edit any.
	role, uid, _ := authz.UserCtx(r)
	if role != models.RoleAdmin && a.ManagerID != uid {
		httpjson.Error(w, http.StatusForbidden, "You do not manage this association.")
		return
	}

	var newManagerID primitive.ObjectID
	changeManager := false
	if s := strings.TrimSpace(req.ManagerID); s != "" {
		newManagerID, err = primitive.ObjectIDFromHex(s)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid manager id.")
			return
		}
		changeManager = newManagerID != a.ManagerID
	}

	users := userstore.New(h.DB)
	var newManager models.User
	if changeManager {
		nm, err := users.GetByID(ctx, newManagerID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.Error(w, http.StatusNotFound, "New manager not found.")
				return
			}
			h.Log.Error("get new manager failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not load manager.")
			return
		}
		newManager = *nm
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := store.UpdateInfo(ctx, oid,
			strings.TrimSpace(req.Name),
			htmlsanitize.Sanitize(req.Description),
			strings.TrimSpace(req.Logo),
		); err != nil {
			return err
		}
		if !changeManager {
			return nil
		}
		if err := store.SetManager(ctx, oid, newManagerID); err != nil {
			return err
		}
		// Promote unless the new manager already outranks the role.
		if newManager.Role != models.RoleAdmin && newManager.Role != models.RoleAssociationManager {
			if err := users.UpdateRole(ctx, newManagerID, models.RoleAssociationManager); err != nil {
				return err
			}
		}
		// Demote the old manager unless they are an admin.
		oldManager, err := users.GetByID(ctx, a.ManagerID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			return err
		}
		if oldManager.Role == models.RoleAssociationManager {
			return users.UpdateRole(ctx, a.ManagerID, models.RoleUser)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, associationstore.ErrDuplicateName) {
			httpjson.Error(w, http.StatusConflict, "An association with this name already exists.")
			return
		}
		h.Log.Error("update association failed", zap.Error(err), zap.String("association_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update association.")
		return
	}

	updated, err := store.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("reload association failed", zap.Error(err), zap.String("association_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load association.")
		return
	}
	httpjson.OK(w, updated)
}

// internal/app/features/associations/delete.go
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
	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	eventstore "github.com/campuslink-io/campuslink/internal/app/store/events"
	registrationstore "github.com/campuslink-io/campuslink/internal/app/store/registrations"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// HandleDelete removes an association and everything downstream of it:
// its events, their registrations and comment threads, and the
// manager's association_manager role.
//
// Route: DELETE /api/associations/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid association id.")
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

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		events := eventstore.New(h.DB)
		es, err := events.ListAllByAssociation(ctx, oid)
		if err != nil {
			return err
		}
		regs := registrationstore.New(h.DB)
		comments := commentstore.New(h.DB)
		for _, e := range es {
			if _, err := regs.DeleteByEvent(ctx, e.ID); err != nil {
				return err
			}
			if _, err := comments.DeleteByTarget(ctx, models.CommentTargetEvent, e.ID); err != nil {
				return err
			}
		}
		if _, err := events.DeleteByAssociation(ctx, oid); err != nil {
			return err
		}

		// Demote the manager unless they are an admin.
		manager, err := userstore.New(h.DB).GetByID(ctx, a.ManagerID)
		if err == nil && manager.Role == models.RoleAssociationManager {
			if err := userstore.New(h.DB).UpdateRole(ctx, a.ManagerID, models.RoleUser); err != nil {
				return err
			}
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}

		_, err = store.Delete(ctx, oid)
		return err
	})
	if err != nil {
		h.Log.Error("delete association failed", zap.Error(err), zap.String("association_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete association.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Association deleted."})
}

// internal/app/features/events/delete.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/policy/eventpolicy"
	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	eventstore "github.com/campuslink-io/campuslink/internal/app/store/events"
	registrationstore "github.com/campuslink-io/campuslink/internal/app/store/registrations"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// HandleDelete removes an event along with its registrations and
// comment thread.
//
// Route: DELETE /api/events/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := eventstore.New(h.DB)
	e, err := store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found.")
			return
		}
		h.Log.Error("get event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete event.")
		return
	}

	allowed, err := eventpolicy.CanManageEvents(ctx, h.DB, r, e.AssociationID)
	if err != nil {
		h.Log.Error("event authorization check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete event.")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Only the association manager can delete this event.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := registrationstore.New(h.DB).DeleteByEvent(ctx, oid); err != nil {
			return err
		}
		if _, err := commentstore.New(h.DB).DeleteByTarget(ctx, models.CommentTargetEvent, oid); err != nil {
			return err
		}
		_, err := store.Delete(ctx, oid)
		return err
	})
	if err != nil {
		h.Log.Error("delete event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete event.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Event deleted."})
}

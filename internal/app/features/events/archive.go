// internal/app/features/events/archive.go
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
	eventstore "github.com/campuslink-io/campuslink/internal/app/store/events"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

type archiveRequest struct {
	Archived *bool `json:"archived"`
}

// HandleArchive toggles an event's archive flag. An absent body
// archives the event; an explicit {"archived": false} restores it.
// Archived events drop out of listings but stay reachable by id.
//
// Route: PATCH /api/events/{id}/archive
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event id.")
		return
	}

	archived := true
	if r.ContentLength > 0 {
		var req archiveRequest
		if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if req.Archived != nil {
			archived = *req.Archived
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := eventstore.New(h.DB)
	e, err := store.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found.")
			return
		}
		h.Log.Error("get event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update event.")
		return
	}

	allowed, err := eventpolicy.CanManageEvents(ctx, h.DB, r, e.AssociationID)
	if err != nil {
		h.Log.Error("event authorization check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update event.")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Only the association manager can archive this event.")
		return
	}

	if err := store.SetArchived(ctx, oid, archived); err != nil {
		h.Log.Error("archive event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update event.")
		return
	}

	updated, err := store.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("reload event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load event.")
		return
	}
	httpjson.OK(w, updated)
}

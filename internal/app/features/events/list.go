// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	eventstore "github.com/campuslink-io/campuslink/internal/app/store/events"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// ServeUpcoming returns non-archived events dated now or later, soonest
// first. Past and archived events never appear here.
//
// Route: GET /api/events
func (h *Handler) ServeUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	es, err := eventstore.New(h.DB).ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		h.Log.Error("list upcoming events failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load events.")
		return
	}
	httpjson.OK(w, es)
}

// ServeByAssociation returns an association's non-archived events,
// soonest first.
//
// Route: GET /api/events/association/{id}
func (h *Handler) ServeByAssociation(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid association id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	es, err := eventstore.New(h.DB).ListByAssociation(ctx, oid)
	if err != nil {
		h.Log.Error("list association events failed", zap.Error(err), zap.String("association_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load events.")
		return
	}
	httpjson.OK(w, es)
}

// ServeGet returns one event by id, archived or not.
//
// Route: GET /api/events/{id}
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := eventstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found.")
			return
		}
		h.Log.Error("get event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load event.")
		return
	}
	httpjson.OK(w, e)
}

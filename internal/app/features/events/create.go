// internal/app/features/events/create.go
package events

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/policy/eventpolicy"
	eventstore "github.com/campuslink-io/campuslink/internal/app/store/events"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type eventRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	AssociationID string    `json:"association_id"`
}

// HandleCreate creates an event for an association. Only an admin or
// the association's manager may create one.
//
// Route: POST /api/events
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		httpjson.Error(w, http.StatusBadRequest, "Title and description are required.")
		return
	}
	if !models.IsValidEventType(req.Type) {
		httpjson.Error(w, http.StatusBadRequest, "Unknown event type.")
		return
	}
	if req.Date.IsZero() {
		httpjson.Error(w, http.StatusBadRequest, "Event date is required.")
		return
	}
	assocID, err := primitive.ObjectIDFromHex(req.AssociationID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid association id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := eventpolicy.CanManageEvents(ctx, h.DB, r, assocID)
	if err != nil {
		h.Log.Error("event authorization check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create event.")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Only the association manager can create events.")
		return
	}

	e, err := eventstore.New(h.DB).Create(ctx, models.Event{
		Title:         req.Title,
		Description:   htmlsanitize.Sanitize(req.Description),
		Image:         req.Image,
		Type:          req.Type,
		Date:          req.Date.UTC(),
		Location:      strings.TrimSpace(req.Location),
		AssociationID: assocID,
	})
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create event.")
		return
	}

	httpjson.Created(w, e)
}

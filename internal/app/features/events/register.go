// internal/app/features/events/register.go
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
	registrationstore "github.com/campuslink-io/campuslink/internal/app/store/registrations"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// registrationView pairs a registration row with its resolved user.
type registrationView struct {
	models.EventRegistration
	User *models.PublicUser `json:"user,omitempty"`
}

// HandleRegister registers the current user for an event. The unique
// index on (user_id, event_id) makes double registration a 409 even
// under concurrent requests. The registration row and the denormalized
// registered_user_ids push commit together.
//
// Route: POST /api/events/{id}/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
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
		httpjson.Error(w, http.StatusInternalServerError, "Could not register.")
		return
	}
	if e.IsArchived {
		httpjson.Error(w, http.StatusBadRequest, "Event is archived.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := registrationstore.New(h.DB).Create(ctx, uid, oid); err != nil {
			return err
		}
		return store.AddRegisteredUser(ctx, oid, uid)
	})
	if err != nil {
		if errors.Is(err, registrationstore.ErrAlreadyRegistered) {
			httpjson.Error(w, http.StatusConflict, "Already registered for this event.")
			return
		}
		h.Log.Error("register failed", zap.Error(err), zap.String("event_id", oid.Hex()), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not register.")
		return
	}

	httpjson.Created(w, map[string]string{"message": "Registered."})
}

// HandleUnregister removes the current user's registration.
//
// Route: POST /api/events/{id}/unregister
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var removed int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		n, err := registrationstore.New(h.DB).Delete(ctx, uid, oid)
		if err != nil {
			return err
		}
		removed = n
		if n == 0 {
			return nil
		}
		return eventstore.New(h.DB).PullRegisteredUser(ctx, oid, uid)
	})
	if err != nil {
		h.Log.Error("unregister failed", zap.Error(err), zap.String("event_id", oid.Hex()), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not unregister.")
		return
	}
	if removed == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Not registered for this event.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Unregistered."})
}

// ServeRegistrations lists an event's registered users. Restricted to
// the association's manager (or an admin).
//
// Route: GET /api/events/{id}/registrations
func (h *Handler) ServeRegistrations(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid event id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e, err := eventstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Event not found.")
			return
		}
		h.Log.Error("get event failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load registrations.")
		return
	}

	allowed, err := eventpolicy.CanManageEvents(ctx, h.DB, r, e.AssociationID)
	if err != nil {
		h.Log.Error("event authorization check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load registrations.")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Only the association manager can view registrations.")
		return
	}

	regs, err := registrationstore.New(h.DB).ListByEvent(ctx, oid)
	if err != nil {
		h.Log.Error("list registrations failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load registrations.")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.UserID)
	}
	us, err := userstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("resolve registered users failed", zap.Error(err), zap.String("event_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load registrations.")
		return
	}

	views := make([]registrationView, 0, len(regs))
	users := make(map[primitive.ObjectID]int, len(us))
	for i := range us {
		users[us[i].ID] = i
	}
	for _, reg := range regs {
		v := registrationView{EventRegistration: reg}
		if i, ok := users[reg.UserID]; ok {
			pu := us[i].Public()
			v.User = &pu
		}
		views = append(views, v)
	}

	httpjson.OK(w, views)
}

// internal/app/features/teams/join.go
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// HandleRequestJoin creates a pending join request from the caller to
// a team. A user with a live request (pending or accepted) or an
// existing membership cannot apply again.
//
// Route: POST /api/teams/{id}/request-join
func (h *Handler) HandleRequestJoin(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}

	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := teamstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Team not found.")
			return
		}
		h.Log.Error("get team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load team.")
		return
	}
	if t.HasMember(uid) {
		httpjson.Error(w, http.StatusBadRequest, "You are already a member of this team.")
		return
	}

	jr, err := joinrequeststore.New(h.DB).Create(ctx, uid, oid)
	if err != nil {
		if errors.Is(err, joinrequeststore.ErrDuplicateRequest) {
			httpjson.Error(w, http.StatusBadRequest, "You already have an active request for this team.")
			return
		}
		h.Log.Error("create join request failed", zap.Error(err),
			zap.String("team_id", oid.Hex()), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create request.")
		return
	}

	httpjson.Created(w, jr)
}

// HandleCancelJoin withdraws the caller's pending request for a team.
//
// Route: DELETE /api/teams/{id}/request-join
func (h *Handler) HandleCancelJoin(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}

	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := joinrequeststore.New(h.DB).CancelPending(ctx, uid, oid)
	if err != nil {
		h.Log.Error("cancel join request failed", zap.Error(err),
			zap.String("team_id", oid.Hex()), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not cancel request.")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusBadRequest, "You have no pending request for this team.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Request cancelled."})
}

// HandleInvite lets a team leader open a pending request on behalf of
// another user, who then shows up in the usual accept flow.
//
// Route: POST /api/teams/{teamID}/invite/{userID}
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	teamID, userID, ok := h.teamUserParams(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadManagedTeam(ctx, w, r, teamID)
	if !ok {
		return
	}
	if t.HasMember(userID) {
		httpjson.Error(w, http.StatusBadRequest, "User is already a member of this team.")
		return
	}

	jr, err := joinrequeststore.New(h.DB).Create(ctx, userID, teamID)
	if err != nil {
		if errors.Is(err, joinrequeststore.ErrDuplicateRequest) {
			httpjson.Error(w, http.StatusBadRequest, "User already has an active request for this team.")
			return
		}
		h.Log.Error("invite failed", zap.Error(err),
			zap.String("team_id", teamID.Hex()), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create invitation.")
		return
	}

	httpjson.Created(w, jr)
}

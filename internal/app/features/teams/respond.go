// internal/app/features/teams/respond.go
package teams

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// HandleAcceptRequest accepts a user's pending request: the request is
// marked accepted and the user joins the members list, both in one
// transaction.
//
// Route: POST /api/teams/{teamID}/accept-request/{userID}
func (h *Handler) HandleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	teamID, userID, ok := h.teamUserParams(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, ok := h.loadManagedTeam(ctx, w, r, teamID); !ok {
		return
	}

	// Locate the pending request outside the txn so a missing one is a
	// clean 400 instead of an aborted transaction.
	jrStore := joinrequeststore.New(h.DB)
	var pending models.JoinRequest
	err := h.DB.Collection("join_requests").FindOne(ctx, bson.M{
		"user_id": userID,
		"team_id": teamID,
		"status":  models.JoinRequestPending,
	}).Decode(&pending)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusBadRequest, "No pending request from this user.")
			return
		}
		h.Log.Error("find join request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load request.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := jrStore.Respond(ctx, pending.ID, models.JoinRequestAccepted); err != nil {
			return err
		}
		if err := teamstore.New(h.DB).AddMember(ctx, teamID, userID, models.TeamRoleMember); err != nil {
			return err
		}
		return profilestore.New(h.DB).AddTeam(ctx, userID, teamID)
	})
	if err != nil {
		if errors.Is(err, joinrequeststore.ErrNotPending) {
			httpjson.Error(w, http.StatusBadRequest, "Request has already been resolved.")
			return
		}
		h.Log.Error("accept join request failed", zap.Error(err),
			zap.String("team_id", teamID.Hex()), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not accept request.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Request accepted."})
}

// HandleRejectRequest declines a user's pending request.
//
// Route: POST /api/teams/{teamID}/reject-request/{userID}
func (h *Handler) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
	teamID, userID, ok := h.teamUserParams(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.loadManagedTeam(ctx, w, r, teamID); !ok {
		return
	}

	res, err := h.DB.Collection("join_requests").UpdateOne(ctx,
		bson.M{"user_id": userID, "team_id": teamID, "status": models.JoinRequestPending},
		bson.M{"$set": bson.M{
			"status":       models.JoinRequestRejected,
			"responded_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		h.Log.Error("reject join request failed", zap.Error(err),
			zap.String("team_id", teamID.Hex()), zap.String("user_id", userID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not reject request.")
		return
	}
	if res.ModifiedCount == 0 {
		httpjson.Error(w, http.StatusBadRequest, "No pending request from this user.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Request rejected."})
}

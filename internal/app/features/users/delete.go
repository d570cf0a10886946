// internal/app/features/users/delete.go
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	commentstore "github.com/campuslink-io/campuslink/internal/app/store/comments"
	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	messagestore "github.com/campuslink-io/campuslink/internal/app/store/messages"
	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	registrationstore "github.com/campuslink-io/campuslink/internal/app/store/registrations"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
)

// HandleDelete removes a user and every trace of them: profile, team
// memberships, join requests, event registrations, likes, comments,
// and messages. Teams they lead are left intact with their leader id
// dangling until reassigned; deleting whole teams out from under their
// members would be worse.
//
// Route: DELETE /api/users/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var deleted int64
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		deleted, err = userstore.New(h.DB).Delete(ctx, oid)
		if err != nil || deleted == 0 {
			return err
		}
		if _, err := profilestore.New(h.DB).DeleteByUser(ctx, oid); err != nil {
			return err
		}
		if err := teamstore.New(h.DB).RemoveUserFromAll(ctx, oid); err != nil {
			return err
		}
		if _, err := joinrequeststore.New(h.DB).DeleteByUser(ctx, oid); err != nil {
			return err
		}
		if _, err := registrationstore.New(h.DB).DeleteByUser(ctx, oid); err != nil {
			return err
		}
		// Mirror the registration cleanup on the denormalized lists.
		if _, err := h.DB.Collection("events").UpdateMany(ctx,
			bson.M{"registered_user_ids": oid},
			bson.M{"$pull": bson.M{"registered_user_ids": oid}},
		); err != nil {
			return err
		}
		if err := projectstore.New(h.DB).RemoveUserLikes(ctx, oid); err != nil {
			return err
		}
		if _, err := commentstore.New(h.DB).DeleteByAuthor(ctx, oid); err != nil {
			return err
		}
		if _, err := messagestore.New(h.DB).DeleteByUser(ctx, oid); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		h.Log.Error("delete user failed", zap.Error(err), zap.String("user_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete user.")
		return
	}
	if deleted == 0 {
		httpjson.Error(w, http.StatusNotFound, "User not found.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "User deleted."})
}

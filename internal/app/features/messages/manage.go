// internal/app/features/messages/manage.go
package messages

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	messagestore "github.com/campuslink-io/campuslink/internal/app/store/messages"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// HandleMarkRead marks one message read. Only its receiver may do
// this; anyone else gets a 403 if the message exists and a 404 if it
// does not.
//
// Route: PATCH /api/messages/{messageID}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "messageID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid message id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := messagestore.New(h.DB)
	n, err := store.MarkRead(ctx, oid, uid)
	if err != nil {
		h.Log.Error("mark read failed", zap.Error(err), zap.String("message_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update message.")
		return
	}
	if n == 0 {
		// Already-read messages match zero too; reload to tell the
		// cases apart.
		m, err := store.GetByID(ctx, oid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.Error(w, http.StatusNotFound, "Message not found.")
				return
			}
			h.Log.Error("get message failed", zap.Error(err), zap.String("message_id", oid.Hex()))
			httpjson.Error(w, http.StatusInternalServerError, "Could not update message.")
			return
		}
		if m.ReceiverID != uid {
			httpjson.Error(w, http.StatusForbidden, "Only the receiver can mark a message read.")
			return
		}
	}

	m, err := store.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("reload message failed", zap.Error(err), zap.String("message_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load message.")
		return
	}
	httpjson.OK(w, m)
}

// HandleDelete removes one message. Either participant may delete it.
//
// Route: DELETE /api/messages/{messageID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "messageID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid message id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := messagestore.New(h.DB)
	n, err := store.Delete(ctx, oid, uid)
	if err != nil {
		h.Log.Error("delete message failed", zap.Error(err), zap.String("message_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete message.")
		return
	}
	if n == 0 {
		if _, err := store.GetByID(ctx, oid); err == nil {
			httpjson.Error(w, http.StatusForbidden, "Only a participant can delete this message.")
			return
		}
		httpjson.Error(w, http.StatusNotFound, "Message not found.")
		return
	}
	httpjson.OK(w, map[string]string{"message": "Message deleted."})
}

// HandleDeleteConversation removes every message between the caller
// and another user, in both directions.
//
// Route: DELETE /api/messages/conversation/{otherUserID}
func (h *Handler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	other, err := primitive.ObjectIDFromHex(chi.URLParam(r, "otherUserID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := messagestore.New(h.DB).DeleteConversation(ctx, uid, other)
	if err != nil {
		h.Log.Error("delete conversation failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not delete conversation.")
		return
	}
	httpjson.OK(w, map[string]any{"message": "Conversation deleted.", "deleted": n})
}

// internal/app/features/messages/conversations.go
package messages

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	messagestore "github.com/campuslink-io/campuslink/internal/app/store/messages"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// ServeConversations returns the caller's conversations, one entry per
// chat partner carrying the latest message, most recent conversation
// first.
//
// Route: GET /api/messages/conversations
func (h *Handler) ServeConversations(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cs, err := messagestore.New(h.DB).Conversations(ctx, uid)
	if err != nil {
		h.Log.Error("list conversations failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load conversations.")
		return
	}
	httpjson.OK(w, cs)
}

// ServeHistory returns the full message history between the caller and
// another user, oldest first. Messages sent to the caller are marked
// read as a side effect, so opening a chat clears its unread state.
//
// Route: GET /api/messages/{otherUserID}
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
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

	store := messagestore.New(h.DB)
	ms, err := store.ListBetween(ctx, uid, other)
	if err != nil {
		h.Log.Error("list messages failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load messages.")
		return
	}

	if _, err := store.MarkConversationRead(ctx, uid, other); err != nil {
		h.Log.Warn("mark conversation read failed", zap.Error(err), zap.String("user_id", uid.Hex()))
	}

	httpjson.OK(w, ms)
}

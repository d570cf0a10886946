// internal/app/features/messages/send.go
package messages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	messagestore "github.com/campuslink-io/campuslink/internal/app/store/messages"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

type sendRequest struct {
	Content string `json:"content"`
}

// HandleSend stores a message and, when the receiver holds an open
// websocket, pushes it to them immediately.
//
// Route: POST /api/messages/{receiverID}
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	receiverID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "receiverID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user id.")
		return
	}
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}
	if receiverID == uid {
		httpjson.Error(w, http.StatusBadRequest, "Cannot message yourself.")
		return
	}

	var req sendRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	content := htmlsanitize.PlainText(strings.TrimSpace(req.Content))
	if content == "" {
		httpjson.Error(w, http.StatusBadRequest, "Message content is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := userstore.New(h.DB).GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Recipient not found.")
			return
		}
		h.Log.Error("get recipient failed", zap.Error(err), zap.String("receiver_id", receiverID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not send message.")
		return
	}

	m, err := messagestore.New(h.DB).Create(ctx, uid, receiverID, content)
	if err != nil {
		h.Log.Error("create message failed", zap.Error(err), zap.String("receiver_id", receiverID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not send message.")
		return
	}

	if h.Presence != nil {
		h.Presence.PushMessage(receiverID, uid, m)
	}

	httpjson.Created(w, m)
}

// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// Routes mounts all message routes under the base path (typically
// "/api/messages" from bootstrap). Everything here requires a signed-in
// user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/conversations", h.ServeConversations)
		pr.Delete("/conversation/{otherUserID}", h.HandleDeleteConversation)
		pr.Patch("/{messageID}/read", h.HandleMarkRead)
		pr.Delete("/{messageID}", h.HandleDelete)
		pr.Post("/{receiverID}", h.HandleSend)
		pr.Get("/{otherUserID}", h.ServeHistory)
	})

	return r
}

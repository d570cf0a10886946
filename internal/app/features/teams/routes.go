// internal/app/features/teams/routes.go
package teams

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// Routes mounts all team routes under the base path (typically
// "/api/teams" from bootstrap). Ownership checks beyond sign-in are
// done per handler because they depend on the team being acted on.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public reads.
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/my-teams", h.ServeMyTeams)
		pr.Get("/my-join-requests", h.ServeMyJoinRequests)
		pr.Get("/my-requests-history", h.ServeMyRequestHistory)

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/rate", h.HandleRate)

		pr.Post("/{id}/request-join", h.HandleRequestJoin)
		pr.Delete("/{id}/request-join", h.HandleCancelJoin)
		pr.Post("/{teamID}/invite/{userID}", h.HandleInvite)
		pr.Post("/{teamID}/accept-request/{userID}", h.HandleAcceptRequest)
		pr.Post("/{teamID}/reject-request/{userID}", h.HandleRejectRequest)
		pr.Delete("/{teamID}/remove-member/{memberID}", h.HandleRemoveMember)
	})

	// Public read. chi matches the literal my-* routes ahead of this
	// wildcard regardless of registration order.
	r.Get("/{id}", h.ServeGet)

	return r
}

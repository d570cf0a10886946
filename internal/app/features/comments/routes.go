// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// Routes mounts all comment routes under the base path (typically
// "/api/comments" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{targetModel}/{targetID}", h.ServeByTarget)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/{targetModel}/{targetID}", h.HandleCreate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

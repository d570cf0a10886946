// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// Routes mounts all profile routes under the base path (typically
// "/api/profiles" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpsertMe)
		pr.Get("/user/{id}", h.ServeByUser)
	})

	return r
}

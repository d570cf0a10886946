// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// Routes mounts all event routes under the base path (typically
// "/api/events" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public reads. The catch-all /{id} route also serves archived
	// events so direct links keep working.
	r.Get("/", h.ServeUpcoming)
	r.Get("/association/{id}", h.ServeByAssociation)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Patch("/{id}/archive", h.HandleArchive)

		pr.Post("/{id}/register", h.HandleRegister)
		pr.Post("/{id}/unregister", h.HandleUnregister)
		pr.Get("/{id}/registrations", h.ServeRegistrations)
	})

	return r
}

// internal/app/features/associations/routes.go
package associations

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// Routes mounts all association routes under the base path (typically
// "/api/associations" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public reads.
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/my-association", h.ServeMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleAssociationManager))

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))

		pr.Delete("/{id}", h.HandleDelete)
	})

	// Public read; the literal my-association route wins over this
	// wildcard.
	r.Get("/{id}", h.ServeGet)

	return r
}

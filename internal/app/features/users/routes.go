// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// Routes mounts all user routes under the base path (typically
// "/api/users" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/search", h.ServeSearch)
		pr.Get("/dashboard/stats", h.ServeDashboardStats)
		pr.Get("/{id}", h.ServeGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleAssociationManager))

		pr.Patch("/{id}/role", h.HandleRoleChange)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))

		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}

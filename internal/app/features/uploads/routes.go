// internal/app/features/uploads/routes.go
package uploads

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// Routes mounts all upload routes under the base path (typically
// "/api/uploads" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/avatar", h.HandleAvatar)
	})

	return r
}

// internal/app/features/student/routes.go
package student

import (
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the student workflows (typically under "/student").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleStudent))

		pr.Get("/contents", h.ServeContents)
		pr.Post("/contents/{id}/complete", h.HandleComplete)
		pr.Get("/certificate", h.ServeCertificate)
	})

	return r
}

// internal/app/features/teacher/routes.go
package teacher

import (
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the teacher workflows (typically under "/teacher").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleTeacher))

		pr.Get("/contents", h.ServeContents)
		pr.Post("/contents", h.HandleAddContent)

		pr.Get("/students", h.ServeStudents)
		pr.Post("/students/import", h.HandleImport)

		pr.Post("/links", h.HandleLink)
	})

	return r
}

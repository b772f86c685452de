// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin workflows (typically under "/admin").
//
// Account approval, promotion and the outbox are open to every admin role;
// institute admins are limited to their own institute. Registrations are
// platform-wide and need admin or app-admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.AdminRoles...))

		pr.Get("/users/pending", h.ServePending)
		pr.Post("/users/{id}/approve", h.HandleApprove)

		pr.Get("/classes", h.ServeClasses)
		pr.Post("/classes/{id}/promote", h.HandlePromote)

		pr.Get("/notifications", h.ServeNotifications)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.PlatformRoles...))

		pr.Get("/registrations", h.ServeRegistrations)
		pr.Post("/registrations/{id}/status", h.HandleRegistrationStatus)
	})

	return r
}

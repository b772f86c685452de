// internal/app/features/assessment/routes.go
package assessment

import "github.com/go-chi/chi/v5"

// Routes mounts the public assessment endpoints (typically under
// "/assessment"). No auth middleware: deep links work signed out.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAssessment)
	r.Post("/submit", h.HandleSubmit)
	return r
}

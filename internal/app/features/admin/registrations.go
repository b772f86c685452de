// internal/app/features/admin/registrations.go
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status string `json:"status"`
}

// ServeRegistrations handles GET /admin/registrations. ?status= filters.
func (h *Handler) ServeRegistrations(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(r.URL.Query().Get("status"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	regs, err := h.Records.Registrations().Filter(ctx, func(reg models.InstituteRegistration) bool {
		return status == "" || reg.Status == status
	})
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "list registrations")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, regs)
}

// HandleRegistrationStatus handles POST /admin/registrations/{id}/status.
func (h *Handler) HandleRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, note, err := enrollment.SetRegistrationStatus(ctx, h.Records, id, req.Status)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "set registration status")
		return
	}
	if note != nil {
		h.deliver(ctx, *note)
	}

	h.AuditLog.RegistrationStatusChanged(ctx, r, actor.ID, reg)
	h.Log.Info("registration status changed",
		zap.String("registration_id", reg.ID),
		zap.String("status", reg.Status),
		zap.String("actor_id", actor.ID))
	uierrors.WriteJSON(w, http.StatusOK, reg)
}

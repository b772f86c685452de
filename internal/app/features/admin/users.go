// internal/app/features/admin/users.go
package admin

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type approveResponse struct {
	User         models.User         `json:"user"`
	Notification models.Notification `json:"notification"`
}

// ServePending handles GET /admin/users/pending.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pending, err := enrollment.Pending(ctx, h.Records, scope(u))
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "list pending users")
		return
	}
	out := make([]models.User, len(pending))
	for i, p := range pending {
		out[i] = p.Public()
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

// HandleApprove handles POST /admin/users/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if inst := scope(actor); inst != "" {
		target, err := h.Records.Users().Find(ctx, id)
		if err != nil {
			uierrors.FromErr(w, h.Log, err, "approve user")
			return
		}
		if target.InstituteID != inst {
			uierrors.JSON(w, http.StatusForbidden, "user belongs to another institute")
			return
		}
	}

	u, n, err := enrollment.Approve(ctx, h.Records, id)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "approve user")
		return
	}

	h.deliver(ctx, n)
	h.Metrics.Approved()
	h.AuditLog.UserApproved(ctx, r, actor.ID, u)
	h.Log.Info("user approved", zap.String("user_id", u.ID), zap.String("actor_id", actor.ID))

	uierrors.WriteJSON(w, http.StatusOK, approveResponse{User: u.Public(), Notification: n})
}

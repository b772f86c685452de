// internal/app/features/admin/classes.go
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/promotion"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type promoteRequest struct {
	NextClassName string `json:"nextClassName"`
}

// ServeClasses handles GET /admin/classes. Archived classes are included
// unless ?active=true.
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	inst := scope(u)
	activeOnly := r.URL.Query().Get("active") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	classes, err := h.Records.Classes().Filter(ctx, func(c models.Class) bool {
		if activeOnly && c.IsArchived {
			return false
		}
		return inst == "" || c.InstituteID == inst
	})
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "list classes")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, classes)
}

// HandlePromote handles POST /admin/classes/{id}/promote.
//
// An unknown class id is not an error: nothing changes and the result
// reports found=false.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	classID := chi.URLParam(r, "id")

	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}
	next := htmlsanitize.StripTags(normalize.Name(req.NextClassName))
	if next == "" {
		uierrors.BadRequest(w, "nextClassName is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if inst := scope(actor); inst != "" {
		c, err := h.Records.Classes().Find(ctx, classID)
		if err == nil && c.InstituteID != inst {
			uierrors.JSON(w, http.StatusForbidden, "class belongs to another institute")
			return
		}
	}

	res, err := promotion.ArchiveAndPromote(ctx, h.Records, classID, next)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "promote class")
		return
	}
	if res.AlreadyArchived {
		uierrors.JSON(w, http.StatusConflict, "class is already archived")
		return
	}
	if res.Found {
		h.Metrics.Promoted(res.Promoted)
		h.AuditLog.ClassPromoted(ctx, r, actor.ID, classID, res.FromClassName, res.ToClassName, res.Promoted)
		h.Log.Info("class promoted",
			zap.String("class_id", classID),
			zap.String("from", res.FromClassName),
			zap.String("to", res.ToClassName),
			zap.Int("students", res.Promoted))
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

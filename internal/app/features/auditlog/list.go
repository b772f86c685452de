// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ServeList handles GET /admin/audit.
//
// Query parameters: category, event_type, user, since (YYYY-MM-DD), limit.
// Institute admins only see events tagged with their own institute.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  normalize.QueryParam(q.Get("category")),
		EventType: normalize.QueryParam(q.Get("event_type")),
		UserID:    normalize.QueryParam(q.Get("user")),
		Limit:     defaultLimit,
	}
	if f.Category != "" && eventTypesForCategory(f.Category) == nil {
		uierrors.BadRequest(w, "unknown category")
		return
	}
	if s := normalize.QueryParam(q.Get("since")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			uierrors.BadRequest(w, "since must be YYYY-MM-DD")
			return
		}
		f.Since = t
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			uierrors.BadRequest(w, "limit must be a positive integer")
			return
		}
		f.Limit = min(n, maxLimit)
	}
	if u.Role == models.RoleInstituteAdmin {
		f.InstituteID = u.InstituteID
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	items, err := h.Audit.Query(ctx, f)
	if err != nil {
		h.Log.Error("audit log query failed", zap.Error(err))
		uierrors.JSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Items:      items,
		Category:   f.Category,
		EventType:  f.EventType,
		Categories: []string{audit.CategoryAuth, audit.CategoryAdmin},
		EventTypes: eventTypesForCategory(f.Category),
	})
}

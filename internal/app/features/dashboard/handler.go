// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Records *records.Store
	Log     *zap.Logger
}

func NewHandler(rs *records.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Records: rs,
		Log:     logger,
	}
}

// ServeDashboard handles GET /dashboard and dispatches on role.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch strings.ToLower(strings.TrimSpace(u.Role)) {
	case models.RoleAdmin, models.RoleAppAdmin:
		h.ServeAdmin(w, r, u, "")
	case models.RoleInstituteAdmin:
		h.ServeAdmin(w, r, u, u.InstituteID)
	case models.RoleTeacher:
		h.ServeTeacher(w, r, u)
	case models.RoleStudent:
		h.ServeStudent(w, r, u)
	default:
		uierrors.JSON(w, http.StatusForbidden, "forbidden")
	}
}

// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	metricsstore "github.com/dalemusser/thinkedge/internal/app/store/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"go.uber.org/zap"
)

type adminData struct {
	baseDashboardData
	InstituteID string              `json:"instituteId,omitempty"` // empty for platform admins
	Counts      metricsstore.Counts `json:"counts"`
}

// ServeAdmin reports store totals, scoped to instituteID when non-empty.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request, u *auth.SessionUser, instituteID string) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	title := "Admin Dashboard"
	if instituteID != "" {
		title = "Institute Dashboard"
	}
	data := adminData{
		baseDashboardData: baseDashboardData{Title: title, Role: u.Role, UserName: u.Name},
		InstituteID:       instituteID,
		Counts:            metricsstore.FetchDashboardCounts(ctx, h.Records, instituteID),
	}

	h.Log.Debug("admin dashboard served", zap.String("user", u.ID))

	uierrors.WriteJSON(w, http.StatusOK, data)
}

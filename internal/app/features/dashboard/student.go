// internal/app/features/dashboard/student.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/sequencer"
)

type studentData struct {
	baseDashboardData
	ClassName        string         `json:"className"`
	Progress         int            `json:"progress"`
	Total            int            `json:"total"`
	CertificateReady bool           `json:"certificateReady"`
	Marks            map[string]int `json:"marks"`
}

// ServeStudent shows progress through the class sequence and recorded marks.
func (h *Handler) ServeStudent(w http.ResponseWriter, r *http.Request, su *auth.SessionUser) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	u, err := h.Records.Users().Find(ctx, su.ID)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "student dashboard")
		return
	}
	items, err := sequencer.ForUser(ctx, h.Records, u)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "student dashboard")
		return
	}

	marks := u.Marks
	if marks == nil {
		marks = map[string]int{}
	}
	uierrors.WriteJSON(w, http.StatusOK, studentData{
		baseDashboardData: baseDashboardData{Title: "My Learning", Role: u.Role, UserName: u.Name},
		ClassName:         u.ClassName,
		Progress:          min(u.ProgressCount, len(items)),
		Total:             len(items),
		CertificateReady:  sequencer.CertificateReady(u.ProgressCount, len(items)),
		Marks:             marks,
	})
}

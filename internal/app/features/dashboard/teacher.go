// internal/app/features/dashboard/teacher.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/catalog"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

type teacherData struct {
	baseDashboardData
	ClassName       string `json:"className"`
	Contents        int    `json:"contents"`
	Students        int    `json:"students"`
	PendingStudents int    `json:"pendingStudents"`
	Finished        int    `json:"finished"` // students with every item done
}

// ServeTeacher summarizes the teacher's class.
func (h *Handler) ServeTeacher(w http.ResponseWriter, r *http.Request, u *auth.SessionUser) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	items, err := catalog.ForClass(ctx, h.Records, u.InstituteID, u.ClassName)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "teacher dashboard")
		return
	}
	students, err := h.Records.Users().Filter(ctx, func(s models.User) bool {
		return s.IsStudent() && s.InstituteID == u.InstituteID && s.ClassName == u.ClassName
	})
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "teacher dashboard")
		return
	}

	data := teacherData{
		baseDashboardData: baseDashboardData{Title: "Teacher Dashboard", Role: u.Role, UserName: u.Name},
		ClassName:         u.ClassName,
		Contents:          len(items),
	}
	for _, s := range students {
		if !s.IsApproved {
			data.PendingStudents++
			continue
		}
		data.Students++
		if len(items) > 0 && s.ProgressCount >= len(items) {
			data.Finished++
		}
	}
	uierrors.WriteJSON(w, http.StatusOK, data)
}

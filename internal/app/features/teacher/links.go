// internal/app/features/teacher/links.go
package teacher

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/deeplink"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

type linkRequest struct {
	AssessmentID string `json:"assessmentId"`
	StudentID    string `json:"studentId"` // optional
}

type linkResponse struct {
	Link         string `json:"link"`
	AssessmentID string `json:"assessmentId"`
	InstituteID  string `json:"instituteId"`
	StudentID    string `json:"studentId,omitempty"`
}

// HandleLink handles POST /teacher/links: a shareable assessment link
// bound to the teacher's institute and, optionally, one student.
func (h *Handler) HandleLink(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}
	req.AssessmentID = normalize.QueryParam(req.AssessmentID)
	req.StudentID = normalize.QueryParam(req.StudentID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadTeacher(ctx, w, r)
	if !ok {
		return
	}

	if _, err := h.Records.Assessments().Find(ctx, req.AssessmentID); err != nil {
		uierrors.FromErr(w, h.Log, err, "find assessment")
		return
	}
	if req.StudentID != "" {
		s, err := h.Records.Users().Find(ctx, req.StudentID)
		if err != nil {
			uierrors.FromErr(w, h.Log, err, "find student")
			return
		}
		if s.Role != models.RoleStudent || s.InstituteID != t.InstituteID {
			uierrors.BadRequest(w, "studentId must name a student in your institute")
			return
		}
	}

	uierrors.WriteJSON(w, http.StatusOK, linkResponse{
		Link:         deeplink.Build(h.BaseURL, req.AssessmentID, t.InstituteID, req.StudentID),
		AssessmentID: req.AssessmentID,
		InstituteID:  t.InstituteID,
		StudentID:    req.StudentID,
	})
}

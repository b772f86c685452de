// internal/app/features/assessment/handler.go
package assessment

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/deeplink"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/scoring"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the public assessment flow reached through deep links.
// No session is needed; the link carries the institute and student.
type Handler struct {
	Records *records.Store
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewHandler(rs *records.Store, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{Records: rs, Metrics: m, Log: logger}
}

type assessmentResponse struct {
	Params     deeplink.Params   `json:"params"`
	Assessment models.Assessment `json:"assessment"`
}

type submitRequest struct {
	AssessmentID string          `json:"id"`
	InstituteID  string          `json:"inst"`
	StudentID    string          `json:"std"`
	Answers      scoring.Answers `json:"answers"`
}

// ServeAssessment handles GET /assessment?id=..&inst=..&std=..
//
// An empty or unknown id falls back to the first assessment. Correct
// answers are never sent to the client.
func (h *Handler) ServeAssessment(w http.ResponseWriter, r *http.Request) {
	p := deeplink.FromValues(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, ok := h.resolve(ctx, w, p.AssessmentID)
	if !ok {
		return
	}
	p.AssessmentID = a.ID
	uierrors.WriteJSON(w, http.StatusOK, assessmentResponse{Params: p, Assessment: a.Redacted()})
}

// HandleSubmit handles POST /assessment/submit. The score is always
// returned; it is stored on the student only when std names a user.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}
	studentID := normalize.QueryParam(req.StudentID)
	if studentID == "" {
		studentID = scoring.UnknownStudent
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, ok := h.resolve(ctx, w, normalize.QueryParam(req.AssessmentID))
	if !ok {
		return
	}

	res, err := scoring.Submit(ctx, h.Records, a, studentID, req.Answers)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "submit assessment")
		return
	}
	h.Metrics.Submitted(res.Score, res.Recorded)
	h.Log.Info("assessment submitted",
		zap.String("assessment_id", a.ID),
		zap.String("student_id", studentID),
		zap.String("institute_id", normalize.QueryParam(req.InstituteID)),
		zap.Int("score", res.Score),
		zap.Bool("recorded", res.Recorded))
	uierrors.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) resolve(ctx context.Context, w http.ResponseWriter, id string) (models.Assessment, bool) {
	all, err := h.Records.Assessments().All(ctx)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load assessments")
		return models.Assessment{}, false
	}
	a, err := deeplink.Resolve(all, id)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "resolve assessment")
		return models.Assessment{}, false
	}
	return a, true
}

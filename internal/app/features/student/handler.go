// internal/app/features/student/handler.go
package student

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/sequencer"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves a student's own learning path.
type Handler struct {
	Records *records.Store
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewHandler(rs *records.Store, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{Records: rs, Metrics: m, Log: logger}
}

type pathResponse struct {
	Progress         int              `json:"progress"`
	Total            int              `json:"total"`
	CertificateReady bool             `json:"certificateReady"`
	Items            []sequencer.Item `json:"items"`
}

type certificateResponse struct {
	Ready     bool   `json:"ready"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// path loads u's sequenced items.
func (h *Handler) path(ctx context.Context, u models.User) (pathResponse, error) {
	items, err := sequencer.ForUser(ctx, h.Records, u)
	if err != nil {
		return pathResponse{}, err
	}
	progress := min(max(u.ProgressCount, 0), len(items))
	return pathResponse{
		Progress:         progress,
		Total:            len(items),
		CertificateReady: sequencer.CertificateReady(u.ProgressCount, len(items)),
		Items:            sequencer.States(items, u.ProgressCount),
	}, nil
}

func (h *Handler) loadStudent(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
		return models.User{}, false
	}
	u, err := h.Records.Users().Find(ctx, su.ID)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load student")
		return models.User{}, false
	}
	return u, true
}

// ServeContents handles GET /student/contents.
func (h *Handler) ServeContents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.loadStudent(ctx, w, r)
	if !ok {
		return
	}
	resp, err := h.path(ctx, u)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load learning path")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

// HandleComplete handles POST /student/contents/{id}/complete. Only the
// active item may be completed; anything else is 409.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	contentID := chi.URLParam(r, "id")

	u, err := sequencer.Complete(ctx, h.Records, su.ID, contentID)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "complete content")
		return
	}
	h.Metrics.Completed()
	h.Log.Debug("content completed",
		zap.String("user_id", u.ID),
		zap.String("content_id", contentID),
		zap.Int("progress", u.ProgressCount))

	resp, err := h.path(ctx, u)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load learning path")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

// ServeCertificate handles GET /student/certificate.
func (h *Handler) ServeCertificate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.loadStudent(ctx, w, r)
	if !ok {
		return
	}
	p, err := h.path(ctx, u)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load learning path")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, certificateResponse{
		Ready:     p.CertificateReady,
		Name:      u.Name,
		ClassName: u.ClassName,
		Completed: p.Progress,
		Total:     p.Total,
	})
}

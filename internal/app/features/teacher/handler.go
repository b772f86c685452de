// internal/app/features/teacher/handler.go
package teacher

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the teacher workflows for the teacher's own class.
type Handler struct {
	Records  *records.Store
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	BaseURL  string // prefix for generated assessment links
	Log      *zap.Logger
}

func NewHandler(rs *records.Store, audit *auditlog.Logger, m *metrics.Metrics, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Records:  rs,
		AuditLog: audit,
		Metrics:  m,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

// loadTeacher re-reads the signed-in user so class and institute are
// current. It writes the error response itself when it returns false.
func (h *Handler) loadTeacher(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
		return models.User{}, false
	}
	u, err := h.Records.Users().Find(ctx, su.ID)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load teacher")
		return models.User{}, false
	}
	return u, true
}

// internal/app/features/register/handler.go
package register

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Records  *records.Store
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewHandler(rs *records.Store, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{Records: rs, AuditLog: audit, Metrics: m, Log: logger}
}

// HandleRegister handles POST /register. The account is created unapproved
// and cannot sign in until an admin approves it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in enrollment.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := enrollment.Register(ctx, h.Records, in)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "register")
		return
	}

	h.Metrics.Registered()
	h.AuditLog.UserRegistered(ctx, r, u)
	h.Log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", u.Role))
	uierrors.WriteJSON(w, http.StatusCreated, u.Public())
}

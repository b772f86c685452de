// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/ratelimit"
	"github.com/dalemusser/thinkedge/internal/app/system/session"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Records    *records.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
	Log        *zap.Logger
}

func NewHandler(rs *records.Store, sessionMgr *auth.SessionManager, audit *auditlog.Logger, m *metrics.Metrics, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Records:    rs,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Metrics:    m,
		Limiter:    limiter,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLoginPost handles POST /login.
//
// Unknown email, wrong password and unapproved account all produce the same
// 401 so the response does not reveal which accounts exist.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}
	email := normalize.Email(req.Email)

	if msg, ok := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("login throttled", zap.String("email", email), zap.String("ip", h.Limiter.ClientIP(r)))
		uierrors.JSON(w, http.StatusTooManyRequests, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acc := session.New(h.Records, h.SessionMgr.Slot(w, r))
	u, err := acc.Login(ctx, email, req.Password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		h.Metrics.Login(false)
		h.AuditLog.LoginFailed(ctx, r, email)
		uierrors.JSON(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.Metrics.Login(false)
		uierrors.FromErr(w, h.Log, err, "login")
		return
	}

	h.Limiter.ResetEmail(email)
	h.Metrics.Login(true)
	h.AuditLog.LoginSuccess(ctx, r, *u)
	uierrors.WriteJSON(w, http.StatusOK, u.Public())
}

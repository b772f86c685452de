// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/session"
	"go.uber.org/zap"
)

type Handler struct {
	Records    *records.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(rs *records.Store, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Records: rs, SessionMgr: sessionMgr, AuditLog: audit, Log: logger}
}

// ServeLogout handles POST /logout. Logging out twice, or without a
// session, is not an error.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	u, signedIn := auth.CurrentUser(r)

	acc := session.New(h.Records, h.SessionMgr.Slot(w, r))
	if err := acc.Logout(r.Context()); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}
	if signedIn {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

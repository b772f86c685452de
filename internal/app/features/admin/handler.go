// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/mailer"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

// SiteName is the product name used in outgoing email.
const SiteName = "ThinkEdge"

// Handler serves the admin workflows: account approval, class promotion,
// the notification outbox and institute registrations.
type Handler struct {
	Records  *records.Store
	Mailer   mailer.Sender
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	BaseURL  string
	Log      *zap.Logger
}

func NewHandler(rs *records.Store, m mailer.Sender, audit *auditlog.Logger, mx *metrics.Metrics, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Records:  rs,
		Mailer:   m,
		AuditLog: audit,
		Metrics:  mx,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

// scope returns the institute an admin is limited to, or "" for platform
// admins who see every institute.
func scope(u *auth.SessionUser) string {
	if u.Role == models.RoleInstituteAdmin {
		return u.InstituteID
	}
	return ""
}

func (h *Handler) loginURL() string {
	if h.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(h.BaseURL, "/") + "/#login"
}

// deliver renders n and hands it to the mailer. Delivery failures are
// logged only; the stored notification is the record of truth.
func (h *Handler) deliver(ctx context.Context, n models.Notification) {
	if h.Mailer == nil {
		return
	}
	email := mailer.BuildNotificationEmail(SiteName, h.loginURL(), n)
	if err := h.Mailer.Send(ctx, email); err != nil {
		h.Log.Warn("notification email not sent",
			zap.String("notification_id", n.ID),
			zap.String("to", n.UserEmail),
			zap.Error(err))
	}
}

// currentUser fetches the signed-in user or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
	}
	return u, ok
}

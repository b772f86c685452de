// internal/app/features/profile/handler.go
package profile

import (
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the signed-in user's own account settings.
type Handler struct {
	Records  *records.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Handler bound to the record store and logger.
func NewHandler(rs *records.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Records:  rs,
		AuditLog: audit,
		Log:      logger,
	}
}

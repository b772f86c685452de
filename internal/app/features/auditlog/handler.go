// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"go.uber.org/zap"
)

type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

// NewHandler constructs an Audit Log feature handler over the audit store.
func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Audit: store,
		Log:   logger,
	}
}

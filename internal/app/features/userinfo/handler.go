// internal/app/features/userinfo/handler.go
package userinfo

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves user information for authenticated sessions.
type Handler struct {
	Records *records.Store
	Log     *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(rs *records.Store, logger *zap.Logger) *Handler {
	return &Handler{Records: rs, Log: logger}
}

type userInfo struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user,omitempty"`
}

// ServeUserInfo returns JSON with the current user's authentication status
// and, when signed in, the stored record (progress and marks included,
// password omitted).
//
// Response format:
//
//	{ "isAuthenticated": bool, "user": {...} }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	su, ok := auth.CurrentUser(r)
	if !ok {
		_ = json.NewEncoder(w).Encode(userInfo{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Records.Users().Find(ctx, su.ID)
	if err != nil {
		// A stale cookie reads as signed out.
		h.Log.Warn("userinfo: user lookup failed", zap.String("user_id", su.ID), zap.Error(err))
		_ = json.NewEncoder(w).Encode(userInfo{})
		return
	}
	pub := u.Public()
	_ = json.NewEncoder(w).Encode(userInfo{IsAuthenticated: true, User: &pub})
}

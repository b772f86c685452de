// internal/app/features/profile/password.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleChangePassword handles POST /profile/password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.JSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Records.Users().Find(ctx, su.ID)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "load user")
		return
	}

	// Imported students have no password yet; only the CLI can set the first one.
	if user.Password == "" || !passwords.Matches(user.Password, req.CurrentPassword) {
		uierrors.BadRequest(w, "Current password is incorrect.")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		uierrors.BadRequest(w, "New passwords do not match.")
		return
	}
	if passwords.Matches(user.Password, req.NewPassword) {
		uierrors.BadRequest(w, "New password cannot be the same as your current password.")
		return
	}

	if err := enrollment.SetPassword(ctx, h.Records, user.ID, req.NewPassword); err != nil {
		uierrors.FromErr(w, h.Log, err, "update password")
		return
	}

	h.AuditLog.PasswordSet(ctx, user.ID)
	h.Log.Info("password changed", zap.String("user_id", user.ID))
	w.WriteHeader(http.StatusNoContent)
}

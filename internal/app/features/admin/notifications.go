// internal/app/features/admin/notifications.go
package admin

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/mailer"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

type notificationItem struct {
	models.Notification
	Preview *mailer.Email `json:"preview,omitempty"`
}

// ServeNotifications handles GET /admin/notifications.
//
// Notifications are listed newest first as stored. With ?preview=true each
// item carries the rendered email. ?limit=N truncates the list.
func (h *Handler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	preview := r.URL.Query().Get("preview") == "true"
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			uierrors.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	notes, err := h.Records.Notifications().All(ctx)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "list notifications")
		return
	}
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}

	out := make([]notificationItem, len(notes))
	for i, n := range notes {
		out[i] = notificationItem{Notification: n}
		if preview {
			e := mailer.BuildNotificationEmail(SiteName, h.loginURL(), n)
			out[i].Preview = &e
		}
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

// internal/app/features/teacher/contents.go
package teacher

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/catalog"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeContents handles GET /teacher/contents: the class's items in
// unlock order.
func (h *Handler) ServeContents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadTeacher(ctx, w, r)
	if !ok {
		return
	}
	items, err := catalog.ForClass(ctx, h.Records, t.InstituteID, t.ClassName)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "list contents")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, items)
}

// HandleAddContent handles POST /teacher/contents.
func (h *Handler) HandleAddContent(w http.ResponseWriter, r *http.Request) {
	var in catalog.ContentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		uierrors.BadRequest(w, "request body must be JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadTeacher(ctx, w, r)
	if !ok {
		return
	}
	c, err := catalog.AddContent(ctx, h.Records, t, in)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "add content")
		return
	}

	h.AuditLog.ContentAdded(ctx, r, t, c)
	h.Log.Info("content added",
		zap.String("content_id", c.ID),
		zap.String("class", c.ClassName),
		zap.Int("priority", c.Priority))
	uierrors.WriteJSON(w, http.StatusCreated, c)
}

// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/catalog"
	"github.com/dalemusser/thinkedge/internal/app/system/deeplink"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/inputval"
	"github.com/dalemusser/thinkedge/internal/app/system/sequencer"
	"github.com/dalemusser/thinkedge/internal/app/system/session"
	"go.uber.org/zap"
)

// body is the JSON error envelope.
type body struct {
	Error  string                `json:"error"`
	Fields []inputval.FieldError `json:"fields,omitempty"`
	Signed bool                  `json:"signedIn,omitempty"`
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSON writes {"error": msg}.
func JSON(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, body{Error: msg})
}

// BadRequest reports malformed input.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, msg)
}

// Invalid reports field validation failures with 422.
func Invalid(w http.ResponseWriter, res *inputval.Result) {
	WriteJSON(w, http.StatusUnprocessableEntity, body{Error: res.First(), Fields: res.Errors})
}

// FromErr maps a domain error to a status and message. Anything it does
// not recognize is logged and reported as 500 without detail.
func FromErr(w http.ResponseWriter, log *zap.Logger, err error, op string) {
	var (
		ev *enrollment.ValidationError
		cv *catalog.ValidationError
	)
	switch {
	case stderrors.As(err, &ev):
		Invalid(w, ev.Result)
	case stderrors.As(err, &cv):
		Invalid(w, cv.Result)
	case stderrors.Is(err, session.ErrInvalidCredentials):
		JSON(w, http.StatusUnauthorized, err.Error())
	case stderrors.Is(err, records.ErrNotFound):
		JSON(w, http.StatusNotFound, "not found")
	case stderrors.Is(err, enrollment.ErrEmailTaken),
		stderrors.Is(err, enrollment.ErrAlreadyApproved):
		JSON(w, http.StatusConflict, err.Error())
	case stderrors.Is(err, sequencer.ErrNotActive):
		JSON(w, http.StatusConflict, err.Error())
	case stderrors.Is(err, enrollment.ErrInvalidStatus),
		stderrors.Is(err, enrollment.ErrWeakPassword):
		BadRequest(w, err.Error())
	case stderrors.Is(err, sequencer.ErrNotStudent),
		stderrors.Is(err, enrollment.ErrNotTeacher),
		stderrors.Is(err, catalog.ErrNotTeacher):
		JSON(w, http.StatusForbidden, err.Error())
	case stderrors.Is(err, deeplink.ErrNoAssessments):
		JSON(w, http.StatusNotFound, err.Error())
	default:
		if log != nil {
			log.Error(op+" failed", zap.Error(err))
		}
		JSON(w, http.StatusInternalServerError, "internal error")
	}
}

// Handler serves the fallback pages the auth middleware redirects
// browsers to.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden handles GET /forbidden.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	_, signed := auth.CurrentUser(r)
	WriteJSON(w, http.StatusForbidden, body{
		Error:  "You don't have permission to view this page.",
		Signed: signed,
	})
}

// Unauthorized handles GET /unauthorized.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusUnauthorized, body{Error: "Please sign in to continue."})
}

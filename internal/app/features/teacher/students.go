// internal/app/features/teacher/students.go
package teacher

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	uierrors "github.com/dalemusser/thinkedge/internal/app/features/errors"
	"github.com/dalemusser/thinkedge/internal/app/system/csvutil"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

// maxErrorsShown caps the row errors echoed back for a rejected upload.
const maxErrorsShown = 5

type rowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type importRejected struct {
	Error   string     `json:"error"`
	Rows    []rowError `json:"rows"`
	Summary string     `json:"summary"` // HTML
}

type importResponse struct {
	Created []models.User `json:"created"`
	Skipped []string      `json:"skipped"`
}

// ServeStudents handles GET /teacher/students: the approved and pending
// students in the teacher's class, by name.
func (h *Handler) ServeStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, ok := h.loadTeacher(ctx, w, r)
	if !ok {
		return
	}
	students, err := h.Records.Users().Filter(ctx, func(u models.User) bool {
		return u.IsStudent() && u.InstituteID == t.InstituteID && u.ClassName == t.ClassName
	})
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "list students")
		return
	}
	sort.SliceStable(students, func(i, j int) bool {
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})
	for i := range students {
		students[i] = students[i].Public()
	}
	uierrors.WriteJSON(w, http.StatusOK, students)
}

// HandleImport handles POST /teacher/students/import.
//
// The upload is a multipart form with the roster in the "csv" field. Any
// invalid row rejects the whole file; nothing is written in that case.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "student CSV import")
	defer cancel()

	t, ok := h.loadTeacher(ctx, w, r)
	if !ok {
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		msg := "CSV file is required."
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			msg = "CSV file is too large. Maximum size is 5 MB."
		}
		uierrors.BadRequest(w, msg)
		return
	}
	defer file.Close()

	parsed, err := csvutil.ParseStudentCSV(file, csvutil.ParseOptions{MaxRows: csvutil.MaxRows})
	if err != nil {
		uierrors.BadRequest(w, "CSV file could not be parsed: "+err.Error())
		return
	}
	if parsed.HasErrors() {
		rows := make([]rowError, 0, min(len(parsed.Errors), maxErrorsShown))
		for _, e := range parsed.Errors[:min(len(parsed.Errors), maxErrorsShown)] {
			rows = append(rows, rowError{Line: e.Line, Reason: e.Reason})
		}
		uierrors.WriteJSON(w, http.StatusUnprocessableEntity, importRejected{
			Error:   "upload rejected",
			Rows:    rows,
			Summary: string(parsed.FormatErrorsHTML(maxErrorsShown)),
		})
		return
	}
	if len(parsed.Rows) == 0 {
		uierrors.BadRequest(w, "CSV file has no student rows.")
		return
	}

	res, err := enrollment.ImportStudents(ctx, h.Records, t, parsed.Rows)
	if err != nil {
		uierrors.FromErr(w, h.Log, err, "import students")
		return
	}
	for i := range res.Created {
		res.Created[i] = res.Created[i].Public()
	}

	h.Metrics.Imported(len(res.Created))
	h.AuditLog.StudentsImported(ctx, r, t, len(res.Created), len(res.Skipped))
	h.Log.Info("students imported",
		zap.String("teacher_id", t.ID),
		zap.Int("created", len(res.Created)),
		zap.Int("skipped", len(res.Skipped)))
	uierrors.WriteJSON(w, http.StatusOK, importResponse{Created: res.Created, Skipped: res.Skipped})
}

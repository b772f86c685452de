// Package catalog manages a class's learning content.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/htmlsanitize"
	"github.com/dalemusser/thinkedge/internal/app/system/inputval"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/sequencer"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/google/uuid"
)

// ErrNotTeacher is returned when a non-teacher adds content.
var ErrNotTeacher = errors.New("only teachers can add content")

// now is replaced in tests.
var now = time.Now

// ValidationError carries field-level input problems.
type ValidationError struct {
	Result *inputval.Result
}

func (e *ValidationError) Error() string { return e.Result.All() }

// ContentInput is a new item as submitted by a teacher. Priority 0 means
// "after everything already in the class".
type ContentInput struct {
	Title    string `json:"title" validate:"required,max=200" label:"Title"`
	Type     string `json:"type" validate:"required,contenttype" label:"Type"`
	URL      string `json:"url" validate:"required,httpurl" label:"URL"`
	Priority int    `json:"priority" validate:"gte=0" label:"Priority"`
}

// AddContent stores a new item in the teacher's institute and class and
// returns it.
func AddContent(ctx context.Context, rs *records.Store, teacher models.User, in ContentInput) (models.Content, error) {
	if teacher.Role != models.RoleTeacher {
		return models.Content{}, ErrNotTeacher
	}
	in.Title = htmlsanitize.StripTags(normalize.Name(in.Title))
	in.Type = normalize.Role(in.Type)
	if in.Type == "" {
		in.Type = models.DefaultContentType
	}
	in.URL = normalize.QueryParam(in.URL)
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Content{}, &ValidationError{Result: res}
	}

	var added models.Content
	err := rs.Contents().Update(ctx, func(items []models.Content) ([]models.Content, error) {
		ids := make(map[string]bool, len(items))
		inClass := 0
		for _, c := range items {
			ids[c.ID] = true
			if c.ClassName == teacher.ClassName && c.InstituteID == teacher.InstituteID {
				inClass++
			}
		}
		prio := in.Priority
		if prio == 0 {
			prio = inClass + 1
		}
		added = models.Content{
			ID:          newContentID(ids),
			InstituteID: teacher.InstituteID,
			ClassName:   teacher.ClassName,
			Title:       in.Title,
			Type:        in.Type,
			URL:         in.URL,
			Priority:    prio,
		}
		return append(items, added), nil
	})
	if err != nil {
		return models.Content{}, err
	}
	return added, nil
}

// ForClass returns a class's content in unlock order.
func ForClass(ctx context.Context, rs *records.Store, instituteID, className string) ([]models.Content, error) {
	return sequencer.ForUser(ctx, rs, models.User{InstituteID: instituteID, ClassName: className})
}

func newContentID(taken map[string]bool) string {
	id := "c" + strconv.FormatInt(now().UnixMilli(), 10)
	if taken[id] {
		id += "-" + uuid.NewString()[:8]
	}
	return id
}

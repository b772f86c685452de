// Package promotion moves a cohort of students to their next class.
package promotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// Result summarizes one promotion run.
type Result struct {
	Found           bool   `json:"found"` // false when the class id did not resolve (no-op)
	AlreadyArchived bool   `json:"alreadyArchived,omitempty"`
	ClassID         string `json:"classId"`
	FromClassName   string `json:"fromClassName,omitempty"`
	ToClassName     string `json:"toClassName"`
	Promoted        int    `json:"promoted"` // students relabelled
}

// ArchiveAndPromote archives the class and relabels every student whose
// ClassName equals the class's name to nextClassName, resetting their
// progress to zero. A missing class is a silent no-op, and so is an
// archived one: its name may already belong to a newer cohort.
//
// Students are matched by class name, not id. Students are written before
// the class is archived, so a failure between the two writes leaves the
// class active with nobody left under its name; running again only
// archives it.
func ArchiveAndPromote(ctx context.Context, rs *records.Store, classID, nextClassName string) (Result, error) {
	res := Result{ClassID: classID, ToClassName: nextClassName}

	class, err := rs.Classes().Find(ctx, classID)
	if errors.Is(err, records.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("load class %s: %w", classID, err)
	}
	res.Found = true
	res.FromClassName = class.Name
	if class.IsArchived {
		res.AlreadyArchived = true
		return res, nil
	}

	err = rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].Role == models.RoleStudent && users[i].ClassName == class.Name {
				users[i].ClassName = nextClassName
				users[i].ProgressCount = 0
				res.Promoted++
			}
		}
		return users, nil
	})
	if err != nil {
		return res, fmt.Errorf("promote students of %q: %w", class.Name, err)
	}

	err = rs.Classes().Update(ctx, func(classes []models.Class) ([]models.Class, error) {
		for i := range classes {
			if classes[i].ID == classID {
				classes[i].IsArchived = true
			}
		}
		return classes, nil
	})
	if err != nil {
		return res, fmt.Errorf("archive class %s: %w", classID, err)
	}
	return res, nil
}

package metricsstore

import (
	"context"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// Counts is the set of totals shown on the admin dashboard and exported
// as gauges.
type Counts struct {
	Institutes           int64 `json:"institutes"`
	Classes              int64 `json:"classes"`
	ArchivedClasses      int64 `json:"archivedClasses"`
	Teachers             int64 `json:"teachers"`
	Students             int64 `json:"students"`
	PendingUsers         int64 `json:"pendingUsers"`
	Contents             int64 `json:"contents"`
	Assessments          int64 `json:"assessments"`
	Notifications        int64 `json:"notifications"`
	PendingRegistrations int64 `json:"pendingRegistrations"`
}

// FetchDashboardCounts returns the high-level counts used by dashboards.
// Intentionally tolerant: on error it returns 0 for that counter.
// A non-empty instituteID scopes user, class and content counts.
func FetchDashboardCounts(ctx context.Context, rs *records.Store, instituteID string) Counts {
	var out Counts
	inScope := func(id string) bool { return instituteID == "" || id == instituteID }

	if insts, err := rs.Institutes().All(ctx); err == nil {
		for _, i := range insts {
			if inScope(i.ID) {
				out.Institutes++
			}
		}
	}

	if classes, err := rs.Classes().All(ctx); err == nil {
		for _, c := range classes {
			if !inScope(c.InstituteID) {
				continue
			}
			if c.IsArchived {
				out.ArchivedClasses++
			} else {
				out.Classes++
			}
		}
	}

	if users, err := rs.Users().All(ctx); err == nil {
		for _, u := range users {
			if !inScope(u.InstituteID) {
				continue
			}
			switch u.Role {
			case models.RoleTeacher:
				out.Teachers++
			case models.RoleStudent:
				out.Students++
			}
			if !u.IsApproved {
				out.PendingUsers++
			}
		}
	}

	if items, err := rs.Contents().All(ctx); err == nil {
		for _, c := range items {
			if inScope(c.InstituteID) {
				out.Contents++
			}
		}
	}

	if as, err := rs.Assessments().All(ctx); err == nil {
		for _, a := range as {
			if inScope(a.InstituteID) {
				out.Assessments++
			}
		}
	}

	// Notifications and registrations are platform-wide.
	if instituteID == "" {
		if ns, err := rs.Notifications().All(ctx); err == nil {
			out.Notifications = int64(len(ns))
		}
		if regs, err := rs.Registrations().All(ctx); err == nil {
			for _, r := range regs {
				if r.Status == models.RegistrationPending {
					out.PendingRegistrations++
				}
			}
		}
	}
	return out
}

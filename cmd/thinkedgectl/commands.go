package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/csvutil"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/promotion"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"go.uber.org/zap"
)

func (cli *commandLine) seed(ctx context.Context) error {
	written, err := cli.rs.Seed(ctx)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Fprintln(cli.out, "all collections already present")
		return nil
	}
	for _, k := range written {
		fmt.Fprintf(cli.out, "seeded %s\n", k)
	}
	return nil
}

func (cli *commandLine) dump(ctx context.Context, collection string) error {
	raw, err := cli.rs.Raw(ctx, collection)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cli.out, "%s\n", raw)
	return err
}

func (cli *commandLine) approve(ctx context.Context, userID string) error {
	u, n, err := enrollment.Approve(ctx, cli.rs, userID)
	if err != nil {
		return err
	}
	cli.audit.UserApproved(ctx, nil, "", u)
	cli.log.Info("user approved", zap.String("user_id", u.ID), zap.String("email", u.Email))
	fmt.Fprintf(cli.out, "approved %s <%s>; notification %s queued\n", u.Name, u.Email, n.ID)
	return nil
}

func (cli *commandLine) promote(ctx context.Context, classID, next string) error {
	res, err := promotion.ArchiveAndPromote(ctx, cli.rs, classID, next)
	if err != nil {
		return err
	}
	if !res.Found {
		return fmt.Errorf("class %q: %w", classID, records.ErrNotFound)
	}
	if res.AlreadyArchived {
		return fmt.Errorf("class %q (%s) is already archived", classID, res.FromClassName)
	}
	cli.audit.ClassPromoted(ctx, nil, "", res.ClassID, res.FromClassName, res.ToClassName, res.Promoted)
	return json.NewEncoder(cli.out).Encode(res)
}

func (cli *commandLine) importStudents(ctx context.Context, teacherID string, r io.Reader) error {
	teacher, err := cli.rs.Users().Find(ctx, teacherID)
	if err != nil {
		return err
	}
	parsed, err := csvutil.ParseStudentCSV(r, csvutil.ParseOptions{MaxRows: csvutil.MaxRows})
	if err != nil {
		return err
	}
	if parsed.HasErrors() {
		for _, e := range parsed.Errors {
			fmt.Fprintf(cli.out, "line %d: %s\n", e.Line, e.Reason)
		}
		return fmt.Errorf("%d rows rejected; nothing imported", len(parsed.Errors))
	}
	res, err := enrollment.ImportStudents(ctx, cli.rs, teacher, parsed.Rows)
	if err != nil {
		return err
	}
	cli.audit.StudentsImported(ctx, nil, teacher, len(res.Created), len(res.Skipped))
	fmt.Fprintf(cli.out, "created %d, skipped %d\n", len(res.Created), len(res.Skipped))
	for _, email := range res.Skipped {
		fmt.Fprintf(cli.out, "  skipped %s (already registered)\n", email)
	}
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	u, err := findByEmail(ctx, cli.rs, email)
	if err != nil {
		return err
	}
	if err := enrollment.SetPassword(ctx, cli.rs, u.ID, pwd); err != nil {
		return err
	}
	cli.audit.PasswordSet(ctx, u.ID)
	fmt.Fprintf(cli.out, "password updated for %s\n", u.Email)
	return nil
}

func findByEmail(ctx context.Context, rs *records.Store, email string) (models.User, error) {
	found, err := rs.Users().Filter(ctx, func(u models.User) bool { return normalize.SameEmail(u.Email, email) })
	if err != nil {
		return models.User{}, err
	}
	if len(found) == 0 {
		return models.User{}, fmt.Errorf("user %q: %w", email, records.ErrNotFound)
	}
	return found[0], nil
}

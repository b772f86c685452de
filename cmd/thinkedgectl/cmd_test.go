package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/dalemusser/thinkedge/internal/app/system/session"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var trail *audit.Store

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	store := kv.NewMemory()
	trail = audit.New(store)
	out := &bytes.Buffer{}
	return &commandLine{
		rs:    records.New(store),
		audit: auditlog.New(trail, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeDB, Admin: auditlog.ModeDB}),
		out:   out,
		log:   zap.NewNop(),
	}, out
}

type cliTest struct {
	name    string
	args    []string // without program name and global flags
	wantErr error
	wantOut string
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(context.Background(), tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output %q does not contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)
	runTests(t, cli, out, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "dump: no collection", args: []string{"dump"}, wantErr: errHelp},
		{name: "approve: no id", args: []string{"approve"}, wantErr: errHelp},
		{name: "promote: no next", args: []string{"promote", "-class", "1"}, wantErr: errHelp},
		{name: "import: no csv", args: []string{"import", "-teacher", "2"}, wantErr: errHelp},
		{name: "resetpassword: no email", args: []string{"resetpassword"}, wantErr: errHelp},
	})
}

func Test_commandLine_seedAndDump(t *testing.T) {
	cli, out := setup(t)
	runTests(t, cli, out, []cliTest{
		{name: "first seed", args: []string{"seed"}, wantOut: "seeded users"},
		{name: "second seed", args: []string{"seed"}, wantOut: "already present"},
		{name: "dump classes", args: []string{"dump", "-collection", "classes"}, wantOut: "10th A"},
	})

	out.Reset()
	if err := cli.run(context.Background(), []string{"dump", "-collection", "nope"}); err == nil {
		t.Error("dump of an unknown collection should fail")
	}
}

func Test_commandLine_approve(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()
	f := testutil.NewFixtures(t, cli.rs)
	u := f.CreateUser(ctx, "New Teacher", "new@school.com", models.RoleTeacher, "1", "10th A", false)

	runTests(t, cli, out, []cliTest{
		{name: "approve pending", args: []string{"approve", "-id", u.ID}, wantOut: "approved New Teacher"},
	})

	if err := cli.run(ctx, []string{"approve", "-id", u.ID}); err == nil {
		t.Error("approving twice should fail")
	}

	events, err := trail.Query(ctx, audit.QueryFilter{EventType: audit.EventUserApproved})
	if err != nil || len(events) != 1 || events[0].UserID != u.ID {
		t.Errorf("expected one approval event for %s, got %+v (%v)", u.ID, events, err)
	}
}

func Test_commandLine_promote(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()
	if _, err := cli.rs.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	runTests(t, cli, out, []cliTest{
		{name: "promote 10th A", args: []string{"promote", "-class", "1", "-next", "11th A"}, wantOut: `"promoted":1`},
	})

	alice, _ := cli.rs.Users().Find(ctx, "3")
	if alice.ClassName != "11th A" || alice.ProgressCount != 0 {
		t.Errorf("alice after promote: class=%q progress=%d", alice.ClassName, alice.ProgressCount)
	}

	if err := cli.run(ctx, []string{"promote", "-class", "999", "-next", "x"}); err == nil {
		t.Error("promoting a missing class should fail")
	}
	if err := cli.run(ctx, []string{"promote", "-class", "1", "-next", "12th A"}); err == nil {
		t.Error("promoting an archived class should fail")
	}
	if alice, _ = cli.rs.Users().Find(ctx, "3"); alice.ClassName != "11th A" {
		t.Errorf("alice moved by a refused promotion: %q", alice.ClassName)
	}
}

func Test_commandLine_import(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()
	if _, err := cli.rs.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	if err := os.WriteFile(good, []byte("name,email\nBob Stone,BOB@student.com\nAlice Johnson,alice@student.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("name,email\nNo Email,\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	runTests(t, cli, out, []cliTest{
		{name: "import roster", args: []string{"import", "-teacher", "2", "-csv", good}, wantOut: "created 1, skipped 1"},
	})

	students, _ := cli.rs.Users().Filter(ctx, func(u models.User) bool { return u.Email == "bob@student.com" })
	if len(students) != 1 || students[0].ClassName != "10th A" || !students[0].IsApproved {
		t.Errorf("imported student = %+v", students)
	}

	if err := cli.run(ctx, []string{"import", "-teacher", "2", "-csv", bad}); err == nil {
		t.Error("rows with errors should abort the import")
	}
	if err := cli.run(ctx, []string{"import", "-teacher", "3", "-csv", good}); err == nil {
		t.Error("importing for a student should fail")
	}
}

func Test_commandLine_resetpassword(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()
	if _, err := cli.rs.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret-pass"), nil }
	defer func() { readPasswordFunc = term.ReadPassword }()

	runTests(t, cli, out, []cliTest{
		{name: "known user", args: []string{"resetpassword", "-email", "SARAH@school.com"}, wantOut: "password updated"},
	})

	if _, err := session.Authenticate(ctx, cli.rs, "sarah@school.com", "s3cret-pass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if err := cli.run(ctx, []string{"resetpassword", "-email", "ghost@school.com"}); err == nil {
		t.Error("unknown email should fail")
	}

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("abc"), nil }
	if err := cli.run(ctx, []string{"resetpassword", "-email", "sarah@school.com"}); err == nil {
		t.Error("short password should be rejected")
	}

	readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
	if err := cli.run(ctx, []string{"resetpassword", "-email", "sarah@school.com"}); !errors.Is(err, errHelp) {
		t.Errorf("empty password: got %v, want errHelp", err)
	}
}

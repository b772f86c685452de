package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	rs    *records.Store
	audit *auditlog.Logger
	out   io.Writer
	log   *zap.Logger
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  seed                                 - write default records for empty collections")
	fmt.Fprintln(w, "  dump -collection NAME                - print a collection as JSON")
	fmt.Fprintln(w, "  approve -id USER_ID                  - approve a pending account")
	fmt.Fprintln(w, "  promote -class CLASS_ID -next NAME   - archive a class and promote its students")
	fmt.Fprintln(w, "  import -teacher USER_ID -csv FILE    - import a student roster for a teacher")
	fmt.Fprintln(w, "  resetpassword -email EMAIL           - set a user's password (prompted)")
}

// run dispatches args (command first, program name and global flags
// already removed).
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		printUsage(cli.out)
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)

	dumpCmd := flag.NewFlagSet("dump", flag.ContinueOnError)
	dumpCollection := dumpCmd.String("collection", "", "one of users, institutes, classes, contents, assessments, notifications, registrations, currentUserId")

	approveCmd := flag.NewFlagSet("approve", flag.ContinueOnError)
	approveID := approveCmd.String("id", "", "id of the user to approve")

	promoteCmd := flag.NewFlagSet("promote", flag.ContinueOnError)
	promoteClass := promoteCmd.String("class", "", "id of the class to promote")
	promoteNext := promoteCmd.String("next", "", "class name the students move to")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importTeacher := importCmd.String("teacher", "", "id of the teacher who owns the roster")
	importCSV := importCmd.String("csv", "", "path to a name,email CSV file")

	resetCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetEmail := resetCmd.String("email", "", "the user's email. The password will be prompted next.")

	for _, fs := range []*flag.FlagSet{seedCmd, dumpCmd, approveCmd, promoteCmd, importCmd, resetCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[0] {
	case "seed":
		if err := seedCmd.Parse(args[1:]); err != nil {
			return err
		}
		return cli.seed(ctx)

	case "dump":
		if err := dumpCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *dumpCollection == "" {
			dumpCmd.Usage()
			return errHelp
		}
		return cli.dump(ctx, *dumpCollection)

	case "approve":
		if err := approveCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *approveID == "" {
			approveCmd.Usage()
			return errHelp
		}
		return cli.approve(ctx, *approveID)

	case "promote":
		if err := promoteCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *promoteClass == "" || *promoteNext == "" {
			promoteCmd.Usage()
			return errHelp
		}
		return cli.promote(ctx, *promoteClass, *promoteNext)

	case "import":
		if err := importCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *importTeacher == "" || *importCSV == "" {
			importCmd.Usage()
			return errHelp
		}
		f, err := os.Open(*importCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		return cli.importStudents(ctx, *importTeacher, f)

	case "resetpassword":
		if err := resetCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *resetEmail == "" {
			resetCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetEmail, string(pwd))

	default:
		printUsage(cli.out)
		return errHelp
	}
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sonnes/claude-export/export"
	"github.com/urfave/cli/v3"
)

func syncCmd() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Bring the document of the current session up to date",
		Description: `The current session is the one whose log was modified last. It is
exported if it has no document yet, and re-exported when the log holds
messages the document does not. Otherwise nothing is written. This is what
the Stop hook installed by "claude-export install" runs.`,
		Flags: append([]cli.Flag{projectFlag()}, redactFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			project, err := projectPath(cmd)
			if err != nil {
				return err
			}

			redactor, err := newRedactor(cmd, a.cfg.Redact)
			if err != nil {
				return err
			}

			res, err := a.exporter(project, redactor).SyncCurrent(project, project)
			if err != nil {
				return err
			}
			printSync(a.out, res)
			return nil
		},
	}
}

func printSync(w io.Writer, res *export.SyncResult) {
	switch {
	case res == nil:
		fmt.Fprintln(w, "No sessions.")
	case res.Added == 0:
		fmt.Fprintf(w, "%s is up to date.\n", res.Filename)
	default:
		fmt.Fprintf(w, "%s  +%d messages  %s\n", res.Path, res.Added, visibilityLabel(res.Public))
	}
}

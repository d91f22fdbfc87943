package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/export"
	"github.com/urfave/cli/v3"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export sessions of a project into its dialog folder",
		Description: `Without flags, exports every session that has no document yet. New
documents are private: they are listed in the project's .gitignore until
published. Re-exporting a session keeps its visibility.`,
		Flags: append([]cli.Flag{
			projectFlag(),
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Re-export every session, including already exported ones",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "Choose one session with a fuzzy finder",
			},
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Export the session whose id starts with this prefix",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Project directory that receives the documents (default: the project)",
			},
		}, redactFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			n := 0
			for _, set := range []bool{cmd.Bool("all"), cmd.Bool("pick"), cmd.String("session") != ""} {
				if set {
					n++
				}
			}
			if n > 1 {
				return fmt.Errorf("only one of --all, --pick, or --session may be specified")
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			source, err := projectPath(cmd)
			if err != nil {
				return err
			}
			target := source
			if out := cmd.String("out"); out != "" {
				if target, err = filepath.Abs(out); err != nil {
					return err
				}
			}

			redactor, err := newRedactor(cmd, a.cfg.Redact)
			if err != nil {
				return err
			}
			e := a.exporter(target, redactor)

			var results []export.Result
			switch {
			case cmd.Bool("pick"), cmd.String("session") != "":
				var s core.Session
				if cmd.Bool("pick") {
					var ok bool
					s, ok, err = a.pickSession(e, redactor, source, target)
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
				} else {
					s, err = e.FindSession(source, cmd.String("session"))
					if err != nil {
						return err
					}
				}
				res, err := e.Export(s, target)
				if err != nil {
					return fmt.Errorf("export %s: %w", s.ShortID(), err)
				}
				results = append(results, *res)
			case cmd.Bool("all"):
				results, err = e.ExportAll(source, target)
			default:
				results, err = e.ExportNew(source, target)
			}
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(a.out, "Nothing to export.")
				return nil
			}
			for _, res := range results {
				fmt.Fprintf(a.out, "%s  %d messages  %s\n", res.Path, res.MessageCount, visibilityLabel(res.Public))
			}
			return nil
		},
	}
}

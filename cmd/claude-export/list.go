package main

import (
	"context"
	"fmt"

	"github.com/sonnes/claude-export/render/terminal"
	"github.com/urfave/cli/v3"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List a project's sessions and exported dialogs",
		Flags: append([]cli.Flag{
			projectFlag(),
			&cli.BoolFlag{
				Name:  "dialogs",
				Usage: "Only list exported dialogs",
			},
		}, redactFlags()...),
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

			e := a.exporter(project, redactor)
			r := &terminal.Renderer{Location: a.loc, Redactor: redactor}

			if !cmd.Bool("dialogs") {
				sessions, err := e.Sessions(project)
				if err != nil {
					return err
				}
				rows := make([]terminal.SessionRow, 0, len(sessions))
				for _, s := range sessions {
					exported, err := e.IsExported(s.ID, project)
					if err != nil {
						return err
					}
					rows = append(rows, terminal.SessionRow{Session: s, Exported: exported})
				}
				fmt.Fprintf(a.out, "Sessions (%d)\n", len(rows))
				r.RenderSessions(a.out, rows)
				fmt.Fprintln(a.out)
			}

			dialogs, err := e.Dialogs(project)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Dialogs (%d)\n", len(dialogs))
			r.RenderDialogs(a.out, dialogs)
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/sonnes/claude-export/install"
	"github.com/urfave/cli/v3"
)

func installCmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Set up a project for automatic session export",
		Description: `Creates the dialog folder and installs a Claude Code Stop hook that runs
"claude-export sync" after every response, so the current session's
document is always up to date. New documents stay private until published.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Project root (default: git root, else current directory)",
			},
			&cli.StringFlag{
				Name:  "binary",
				Usage: "Command the hook runs",
				Value: "claude-export",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			res, err := install.Run(install.Config{
				Dir:     cmd.String("dir"),
				Binary:  cmd.String("binary"),
				Tracker: a.tracker(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Installed successfully.")
			fmt.Fprintln(a.out)
			fmt.Fprintf(a.out, "  Dialogs:   %s\n", res.DialogFolder)
			fmt.Fprintf(a.out, "  Hook:      %s (%s)\n", res.Script, install.HookEvent)
			fmt.Fprintf(a.out, "  Settings:  %s\n", res.Settings)
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "The current session is synced after every Claude Code response.")
			fmt.Fprintln(a.out, "Run 'claude-export publish FILE' to share a dialog.")
			return nil
		},
	}
}

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newRoot().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newRoot() *cli.Command {
	return &cli.Command{
		Name:  "claude-export",
		Usage: "Export Claude Code sessions into a project's dialog/ folder",
		Description: `Converts the JSONL session logs Claude Code keeps under ~/.claude/projects/
into Markdown documents, redacts secrets on the way, and keeps the documents
in step with the live logs. Exported documents are private (git-ignored)
until published.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "error",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to config.yaml (default $XDG_CONFIG_HOME/claude-export/config.yaml)",
				Sources: cli.EnvVars("CLAUDE_EXPORT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "projects-dir",
				Usage:   "Claude Code projects directory (default ~/.claude/projects)",
				Sources: cli.EnvVars("CLAUDE_PROJECTS_DIR"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			exportCmd(),
			syncCmd(),
			listCmd(),
			summaryCmd(),
			publishCmd(),
			unpublishCmd(),
			viewerCmd(),
			watchCmd(),
			installCmd(),
		},
	}
}

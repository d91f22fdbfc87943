package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/sonnes/claude-export/watch"
	"github.com/urfave/cli/v3"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Keep the current session's document in sync while Claude Code runs",
		Description: `Watches the project's log directory and runs "sync" once the logs have
been quiet for the debounce period. Stops on Ctrl-C.`,
		Flags: append([]cli.Flag{
			projectFlag(),
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before syncing (default from config, 2s)",
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

			logDir, ok := a.reader.ResolveProject(project)
			if !ok {
				return fmt.Errorf("no Claude Code logs for %s", project)
			}

			redactor, err := newRedactor(cmd, a.cfg.Redact)
			if err != nil {
				return err
			}
			e := a.exporter(project, redactor)

			debounce := a.cfg.Watch.Debounce
			if d := cmd.Duration("debounce"); d > 0 {
				debounce = d
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watch.Watcher{
				Dir:      a.reader.LogDir(logDir),
				Debounce: debounce,
				Sync: func(context.Context) error {
					res, err := e.SyncCurrent(project, project)
					if err != nil {
						return err
					}
					if res != nil && res.Added > 0 {
						printSync(a.out, res)
					}
					return nil
				},
			}

			log.Info("watching", "project", project, "logs", w.Dir)
			return w.Run(ctx)
		},
	}
}

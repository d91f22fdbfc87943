package main

import (
	"context"
	"fmt"

	htmlrender "github.com/sonnes/claude-export/render/html"
	"github.com/urfave/cli/v3"
)

func viewerCmd() *cli.Command {
	return &cli.Command{
		Name:  "viewer",
		Usage: "Generate the static HTML viewer for a project's public dialogs",
		Description: `Fills the placeholders of the viewer template with the project's public
dialogs and writes html-viewer/index.html inside the project. The template
comes from --template or viewer.template in the config file.`,
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Path to the viewer template",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			project, err := projectPath(cmd)
			if err != nil {
				return err
			}

			tmpl := a.cfg.Viewer.Template
			if t := cmd.String("template"); t != "" {
				tmpl = t
			}
			if tmpl == "" {
				return fmt.Errorf("no template configured (set --template or viewer.template): %w", htmlrender.ErrTemplateNotFound)
			}

			dialogs, err := a.exporter(project, nil).Dialogs(project)
			if err != nil {
				return err
			}

			v := htmlrender.NewViewer(tmpl, a.cfg.Viewer.Version)
			v.Location = a.loc
			out, err := v.Generate(project, dialogs)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
}

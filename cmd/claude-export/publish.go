package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Make an exported dialog public (remove it from .gitignore)",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{projectFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return setPublic(cmd, true)
		},
	}
}

func unpublishCmd() *cli.Command {
	return &cli.Command{
		Name:      "unpublish",
		Usage:     "Make an exported dialog private (add it to .gitignore)",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{projectFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return setPublic(cmd, false)
		},
	}
}

func setPublic(cmd *cli.Command, public bool) error {
	file := cmd.Args().First()
	if file == "" {
		return fmt.Errorf("a dialog file is required")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	project, err := projectPath(cmd)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	if err := a.exporter(project, nil).SetPublic(path, project, public); err != nil {
		return fmt.Errorf("set visibility of %s: %w", file, err)
	}
	fmt.Fprintf(a.out, "%s is now %s.\n", filepath.Base(path), visibilityLabel(public))
	return nil
}

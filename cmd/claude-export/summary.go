package main

import (
	"context"
	"fmt"

	"github.com/sonnes/claude-export/summary"
	"github.com/urfave/cli/v3"
)

func summaryCmd() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Read or write the summary fields of an exported dialog",
		Description: `Summaries live in HTML comments at the top of a dialog document:
SUMMARY (PENDING, ACTIVE or the summary itself), SUMMARY_SHORT and
SUMMARY_FULL. Only the header is read; text inside the dialog is never
taken for a summary.`,
		Commands: []*cli.Command{
			summaryGetCmd(),
			summaryHasCmd(),
			summarySetCmd(),
		},
	}
}

func fieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "short",
			Usage: "Use the SUMMARY_SHORT field",
		},
		&cli.BoolFlag{
			Name:  "full",
			Usage: "Use the SUMMARY_FULL field",
		},
	}
}

func summaryGetCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print a summary field",
		ArgsUsage: "FILE",
		Flags:     fieldFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("a dialog file is required")
			}

			get := summary.GetSummary
			switch {
			case cmd.Bool("short"):
				get = summary.GetShort
			case cmd.Bool("full"):
				get = summary.GetFull
			}

			value, ok, err := get(path)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.Root().Writer, value)
			}
			return nil
		},
	}
}

func summaryHasCmd() *cli.Command {
	return &cli.Command{
		Name:      "has",
		Usage:     "Print true when the dialog has a real summary",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("a dialog file is required")
			}

			ok, err := summary.HasSummary(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, ok)
			return nil
		},
	}
}

func summarySetCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Write a summary field",
		ArgsUsage: "FILE VALUE",
		Flags:     fieldFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("usage: summary set FILE VALUE")
			}
			path, value := cmd.Args().Get(0), cmd.Args().Get(1)

			set := summary.SetSummary
			switch {
			case cmd.Bool("short"):
				set = summary.SetShortSummary
			case cmd.Bool("full"):
				set = summary.SetFullSummary
			}
			return set(path, value)
		},
	}
}

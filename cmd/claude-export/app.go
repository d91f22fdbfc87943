package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sonnes/claude-export/author"
	"github.com/sonnes/claude-export/config"
	"github.com/sonnes/claude-export/export"
	"github.com/sonnes/claude-export/reader/claude"
	"github.com/sonnes/claude-export/redact"
	"github.com/sonnes/claude-export/render/markdown"
	"github.com/sonnes/claude-export/visibility"
	"github.com/urfave/cli/v3"
)

// app holds the resolved configuration shared by CLI commands.
type app struct {
	cfg    *config.Config
	loc    *time.Location
	reader *claude.Reader
	out    io.Writer
}

// newApp loads the config file and applies the global flag overrides.
func newApp(cmd *cli.Command) (*app, error) {
	root := cmd.Root()

	cfg, err := config.Load(root.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := root.String("projects-dir"); dir != "" {
		cfg.ProjectsDir = dir
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	out := root.Writer
	if out == nil {
		out = os.Stdout
	}

	return &app{
		cfg:    cfg,
		loc:    loc,
		reader: &claude.Reader{Dir: cfg.ProjectsDir},
		out:    out,
	}, nil
}

func (a *app) tracker() *visibility.Gitignore {
	return &visibility.Gitignore{Folder: a.cfg.DialogFolder}
}

// exporter builds an Exporter that writes documents into target, signed with
// the git identity of target.
func (a *app) exporter(target string, redactor *redact.Redactor) *export.Exporter {
	return &export.Exporter{
		Reader:  a.reader,
		Tracker: a.tracker(),
		Renderer: &markdown.Renderer{
			Author:   author.Lookup(target),
			Location: a.loc,
			Redactor: redactor,
		},
		Location: a.loc,
	}
}

func projectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Project path (default: current directory)",
	}
}

// projectPath returns the absolute project path from --project, or the
// working directory when it is not set.
func projectPath(cmd *cli.Command) (string, error) {
	p := cmd.String("project")
	if p == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return cwd, nil
	}
	return filepath.Abs(p)
}

func redactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-redact",
			Usage: "Disable redaction of secrets and PII",
		},
		&cli.StringSliceFlag{
			Name:  "redact",
			Usage: "Rules to redact, overriding the config file. Example: --redact=secrets,pii",
		},
	}
}

// newRedactor builds a Redactor from the config file and CLI flags. Returns
// nil when --no-redact is set.
func newRedactor(cmd *cli.Command, cfg config.Redact) (*redact.Redactor, error) {
	if cmd.Bool("no-redact") {
		return nil, nil
	}

	rc := redact.Config{
		Secrets:   cfg.Secrets,
		PII:       cfg.PII,
		Allowlist: cfg.Allowlist,
	}

	if rules := cmd.StringSlice("redact"); len(rules) > 0 {
		rc.Secrets, rc.PII = false, false
		for _, r := range rules {
			switch r {
			case "secrets":
				rc.Secrets = true
			case "pii":
				rc.PII = true
			default:
				return nil, fmt.Errorf("unknown redaction rule %q", r)
			}
		}
	}

	return redact.New(rc), nil
}

func visibilityLabel(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

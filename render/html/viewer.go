// Package html generates the static HTML viewer for a project's public
// dialogs. The page itself comes from an operator-supplied template; this
// package fills in its placeholders with project metadata and the dialog
// documents, each pre-rendered from Markdown with goldmark and chroma.
package html

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sonnes/claude-export/core"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// ErrTemplateNotFound is returned when the viewer template does not exist.
var ErrTemplateNotFound = errors.New("viewer template not found")

// OutputDir is the folder, inside the project, that receives index.html.
const OutputDir = "html-viewer"

// Template placeholders, replaced in this order. Dialog data goes last so
// that placeholder names quoted inside a conversation are left alone.
const (
	placeholderProjectInfo = "__PROJECT_INFO__"
	placeholderVersion     = "__VERSION__"
	placeholderDate        = "__DATE__"
	placeholderDateTime    = "__DATETIME__"
	placeholderProjectName = "__PROJECT_NAME__"
	placeholderDialogs     = "__DIALOGS_DATA__"
)

var scriptCloseRE = regexp.MustCompile(`(?i)</script>`)

// Viewer writes <project>/html-viewer/index.html.
type Viewer struct {
	TemplatePath string
	Version      string
	Now          func() time.Time
	Location     *time.Location

	md goldmark.Markdown
}

// NewViewer creates a Viewer with goldmark configured for GFM and syntax
// highlighting.
func NewViewer(templatePath, version string) *Viewer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles for standalone pages
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
	return &Viewer{TemplatePath: templatePath, Version: version, md: md}
}

type projectInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	DialogCount int    `json:"dialogCount"`
	GeneratedAt string `json:"generatedAt"`
}

type dialogData struct {
	core.Dialog
	Size            string  `json:"size"`
	SessionDateTime *string `json:"sessionDateTime"`
	Content         string  `json:"content"`
	HTML            string  `json:"html"`
}

// Generate renders the public dialogs, newest first, into the template and
// writes the result under target. It returns the path of the written page.
func (v *Viewer) Generate(target string, dialogs []core.Dialog) (string, error) {
	tmpl, err := os.ReadFile(v.TemplatePath)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, v.TemplatePath)
	}
	if err != nil {
		return "", fmt.Errorf("read viewer template: %w", err)
	}

	var public []core.Dialog
	for _, d := range dialogs {
		if d.Public {
			public = append(public, d)
		}
	}
	sort.SliceStable(public, func(i, j int) bool {
		return public[i].SessionTime.After(public[j].SessionTime)
	})

	data := make([]dialogData, 0, len(public))
	for _, d := range public {
		dd, err := v.dialogData(d)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", d.Filename, err)
		}
		data = append(data, dd)
	}

	now := v.now()
	name := filepath.Base(target)
	info, err := json.Marshal(projectInfo{
		Name:        name,
		Path:        target,
		DialogCount: len(public),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	dialogsJSON, err := marshalDialogs(data)
	if err != nil {
		return "", err
	}

	out := string(tmpl)
	out = strings.Replace(out, placeholderProjectInfo, string(info), 1)
	out = strings.Replace(out, placeholderVersion, v.version(), 1)
	out = strings.Replace(out, placeholderDate, now.Format(time.DateOnly), 1)
	out = strings.Replace(out, placeholderDateTime, now.Format("2006-01-02, 15:04"), 1)
	out = strings.Replace(out, placeholderProjectName, name, 1)
	out = strings.Replace(out, placeholderDialogs, dialogsJSON, 1)

	dir := filepath.Join(target, OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (v *Viewer) dialogData(d core.Dialog) (dialogData, error) {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return dialogData{}, err
	}

	var buf bytes.Buffer
	if err := v.markdown().Convert(content, &buf); err != nil {
		return dialogData{}, fmt.Errorf("goldmark convert: %w", err)
	}

	dd := dialogData{
		Dialog:  d,
		Size:    d.Size(),
		Content: string(content),
		HTML:    buf.String(),
	}
	if !d.SessionTime.IsZero() {
		s := d.SessionTime.UTC().Format(time.RFC3339)
		dd.SessionDateTime = &s
	}
	return dd, nil
}

// marshalDialogs encodes the dialog list for embedding in a <script> block.
// Closing script tags inside conversation text are escaped so they cannot
// end the block early.
func marshalDialogs(data []dialogData) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return scriptCloseRE.ReplaceAllString(out, `<\/script>`), nil
}

func (v *Viewer) markdown() goldmark.Markdown {
	if v.md == nil {
		v.md = NewViewer("", "").md
	}
	return v.md
}

func (v *Viewer) version() string {
	if v.Version == "" {
		return "dev"
	}
	return v.Version
}

func (v *Viewer) now() time.Time {
	t := time.Now()
	if v.Now != nil {
		t = v.Now()
	}
	if v.Location != nil {
		t = t.In(v.Location)
	}
	return t
}

package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/reader/claude"
	"github.com/sonnes/claude-export/redact"
	"github.com/sonnes/claude-export/render"
	"github.com/sonnes/claude-export/render/markdown"
	"github.com/sonnes/claude-export/summary"
	"github.com/sonnes/claude-export/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	source    = "/work/app"
	sessionA  = "abcd1234-0000-4000-8000-000000000001"
	sessionB  = "beef5678-0000-4000-8000-000000000002"
	lateNight = "2025-12-05T23:30:00Z"
)

type fixture struct {
	logs     string // <projects>/-work-app
	target   string
	exporter *Exporter
	renderer *markdown.Renderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	projects := t.TempDir()
	logs := filepath.Join(projects, "-work-app")
	require.NoError(t, os.MkdirAll(logs, 0o755))

	r := &markdown.Renderer{
		Author:   core.Author{Name: "Ada", Email: "ada@example.com"},
		Now:      func() time.Time { return time.Date(2025, 12, 7, 8, 0, 0, 0, time.UTC) },
		Location: time.UTC,
		Redactor: redact.Default(),
	}
	return &fixture{
		logs:     logs,
		target:   t.TempDir(),
		renderer: r,
		exporter: &Exporter{
			Reader:   &claude.Reader{Dir: projects},
			Tracker:  &visibility.Gitignore{},
			Renderer: r,
			Location: time.UTC,
			Logger:   log.New(io.Discard),
		},
	}
}

func dialogLine(typ, text, ts string) string {
	return fmt.Sprintf(`{"type":%q,"timestamp":%q,"message":{"role":%q,"content":%q}}`, typ, ts, typ, text)
}

// writeLog writes a session log and stamps it with mtime.
func (f *fixture) writeLog(t *testing.T, id string, mtime time.Time, lines ...string) string {
	t.Helper()
	path := filepath.Join(f.logs, id+".jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func (f *fixture) appendLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fh.WriteString(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
	require.NoError(t, fh.Close())
}

func (f *fixture) session(t *testing.T, id string) core.Session {
	t.Helper()
	s, err := f.exporter.FindSession(source, id)
	require.NoError(t, err)
	return s
}

func (f *fixture) gitignore(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.target, ".gitignore"))
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func twoMessages() []string {
	return []string{
		dialogLine("user", "Add a retry to the client", "2025-12-05T10:00:00Z"),
		dialogLine("assistant", "Done, with backoff.", "2025-12-05T10:01:00Z"),
	}
}

var base = time.Date(2025, 12, 5, 12, 0, 0, 0, time.UTC)

func TestExportFirstTimeIsPrivate(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)

	res, err := f.exporter.Export(f.session(t, sessionA), f.target)
	require.NoError(t, err)

	assert.Equal(t, "2025-12-05_session-abcd1234.md", res.Filename)
	assert.Equal(t, filepath.Join(f.target, "dialog", res.Filename), res.Path)
	assert.Equal(t, 2, res.MessageCount)
	assert.False(t, res.Public)
	assert.False(t, res.Renamed)
	assert.FileExists(t, res.Path)
	assert.Equal(t, "dialog/2025-12-05_session-abcd1234.md\n", f.gitignore(t))

	exported, err := f.exporter.IsExported(sessionA, f.target)
	require.NoError(t, err)
	assert.True(t, exported)
}

func TestReExportIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)
	s := f.session(t, sessionA)

	first, err := f.exporter.Export(s, f.target)
	require.NoError(t, err)
	doc, ignore := readFile(t, first.Path), f.gitignore(t)

	second, err := f.exporter.Export(s, f.target)
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, doc, readFile(t, second.Path))
	assert.Equal(t, ignore, f.gitignore(t))
	assert.False(t, second.Public)
}

func TestReExportKeepsPublic(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)
	s := f.session(t, sessionA)

	first, err := f.exporter.Export(s, f.target)
	require.NoError(t, err)
	require.NoError(t, f.exporter.SetPublic(first.Path, f.target, true))

	second, err := f.exporter.Export(s, f.target)
	require.NoError(t, err)
	assert.True(t, second.Public)
	assert.NotContains(t, f.gitignore(t), first.Filename)
}

func TestExportRenamesOnDateShift(t *testing.T) {
	for _, public := range []bool{true, false} {
		t.Run(fmt.Sprintf("public=%v", public), func(t *testing.T) {
			f := newFixture(t)
			f.writeLog(t, sessionA, base,
				dialogLine("user", "late question", lateNight),
				dialogLine("assistant", "late answer", lateNight),
			)
			s := f.session(t, sessionA)

			old, err := f.exporter.Export(s, f.target)
			require.NoError(t, err)
			require.Equal(t, "2025-12-05_session-abcd1234.md", old.Filename)
			require.NoError(t, f.exporter.SetPublic(old.Path, f.target, public))

			jst := time.FixedZone("JST", 9*60*60)
			f.exporter.Location = jst
			f.renderer.Location = jst

			res, err := f.exporter.Export(s, f.target)
			require.NoError(t, err)
			assert.Equal(t, "2025-12-06_session-abcd1234.md", res.Filename)
			assert.True(t, res.Renamed)
			assert.Equal(t, public, res.Public)
			assert.NoFileExists(t, old.Path)

			isPublic, err := f.exporter.Tracker.IsPublic(res.Path, f.target)
			require.NoError(t, err)
			assert.Equal(t, public, isPublic)

			ignore := f.gitignore(t)
			assert.NotContains(t, ignore, old.Filename)
			if !public {
				assert.Equal(t, "dialog/2025-12-06_session-abcd1234.md\n", ignore)
			}

			files, err := f.exporter.Tracker.ListFiles(f.target)
			require.NoError(t, err)
			assert.Equal(t, []string{res.Path}, files)
		})
	}
}

func TestSyncCurrent(t *testing.T) {
	f := newFixture(t)
	path := f.writeLog(t, sessionA, base, twoMessages()...)

	res, err := f.exporter.SyncCurrent(source, f.target)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Added, "first sync exports everything")
	doc := readFile(t, res.Path)

	// A later clock must not cause a rewrite when nothing new was logged.
	f.renderer.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	res, err = f.exporter.SyncCurrent(source, f.target)
	require.NoError(t, err)
	assert.Zero(t, res.Added)
	assert.Equal(t, doc, readFile(t, res.Path))

	f.appendLog(t, path, dialogLine("user", "And a timeout too", "2025-12-05T10:05:00Z"))
	res, err = f.exporter.SyncCurrent(source, f.target)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 3, markdown.CountDialogBlocks(readFile(t, res.Path)))
	assert.Contains(t, readFile(t, res.Path), "**Exported:** 01.01.2026, 00:00:00")
}

func TestSyncCurrentPicksNewestLog(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)
	f.writeLog(t, sessionB, base.Add(time.Hour), twoMessages()...)

	res, err := f.exporter.SyncCurrent(source, f.target)
	require.NoError(t, err)
	assert.Equal(t, sessionB, res.SessionID)

	exported, err := f.exporter.IsExported(sessionA, f.target)
	require.NoError(t, err)
	assert.False(t, exported)
}

func TestSyncCurrentWithoutSessions(t *testing.T) {
	f := newFixture(t)

	res, err := f.exporter.SyncCurrent(source, f.target)
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = f.exporter.SyncCurrent("/not/a/project", f.target)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestTwoMessagesOneSummary(t *testing.T) {
	f := newFixture(t)
	lines := append([]string{`{"type":"summary","summary":"Client retries"}`}, twoMessages()...)
	f.writeLog(t, sessionA, base, lines...)

	res, err := f.exporter.Export(f.session(t, sessionA), f.target)
	require.NoError(t, err)

	doc := readFile(t, res.Path)
	assert.Equal(t, 2, strings.Count(doc, "\n### "))
	assert.Equal(t, 1, strings.Count(doc, "\n- "))
	assert.Contains(t, doc, "**Messages:** 2")

	sync, err := f.exporter.SyncCurrent(source, f.target)
	require.NoError(t, err)
	assert.Zero(t, sync.Added)
}

// failingRenderer fails for one session and delegates otherwise.
type failingRenderer struct {
	render.Renderer
	failID string
}

func (r failingRenderer) Render(w io.Writer, t *core.Transcript) error {
	if t.Session.ID == r.failID {
		return errors.New("boom")
	}
	return r.Renderer.Render(w, t)
}

func TestExportNew(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)

	_, err := f.exporter.Export(f.session(t, sessionA), f.target)
	require.NoError(t, err)

	f.writeLog(t, sessionB, base.Add(time.Hour), twoMessages()...)
	results, err := f.exporter.ExportNew(source, f.target)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, sessionB, results[0].SessionID)

	results, err = f.exporter.ExportNew(source, f.target)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestExportBatchIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)
	f.writeLog(t, sessionB, base.Add(time.Hour), twoMessages()...)
	f.exporter.Renderer = failingRenderer{Renderer: f.renderer, failID: sessionB}

	results, err := f.exporter.ExportAll(source, f.target)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, sessionA, results[0].SessionID)

	exported, err := f.exporter.IsExported(sessionB, f.target)
	require.NoError(t, err)
	assert.False(t, exported)
}

func TestFindSession(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)

	s, err := f.exporter.FindSession(source, "abcd")
	require.NoError(t, err)
	assert.Equal(t, sessionA, s.ID)

	_, err = f.exporter.FindSession(source, "ffff")
	assert.ErrorIs(t, err, ErrNoSessions)
}

func TestDialogs(t *testing.T) {
	f := newFixture(t)
	f.writeLog(t, sessionA, base, twoMessages()...)
	res, err := f.exporter.Export(f.session(t, sessionA), f.target)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.target, "dialog", "notes.md"), []byte("# notes\n"), 0o644))

	require.NoError(t, summary.SetSummary(res.Path, summary.StatusActive))
	require.NoError(t, summary.SetShortSummary(res.Path, "Client retries"))

	dialogs, err := f.exporter.Dialogs(f.target)
	require.NoError(t, err)
	require.Len(t, dialogs, 2)

	d := dialogs[0]
	assert.Equal(t, res.Filename, d.Filename)
	assert.Equal(t, "2025-12-05", d.Date)
	assert.Equal(t, "abcd1234", d.SessionID)
	assert.False(t, d.Public)
	assert.Equal(t, "Client retries", d.Summary)
	assert.Equal(t, "Client retries", d.SummaryShort)
	assert.Equal(t, "Auto-generate this", d.SummaryFull)
	assert.True(t, time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC).Equal(d.SessionTime))

	notes := dialogs[1]
	assert.Equal(t, "Unknown", notes.Date)
	assert.True(t, notes.Public)
	assert.True(t, notes.SessionTime.IsZero())
}

func TestSetPublicMissingFile(t *testing.T) {
	f := newFixture(t)
	err := f.exporter.SetPublic(filepath.Join(f.target, "dialog", "nope.md"), f.target, true)
	assert.Error(t, err)
}

package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/sonnes/claude-export/core"
	"github.com/sonnes/claude-export/redact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC)

func record(typ core.RecordType, at time.Time, blocks ...core.ContentBlock) core.Record {
	return core.Record{
		Type:      typ,
		Timestamp: core.Timestamp{Time: at},
		Message:   &core.RecordMessage{Content: core.Content{Blocks: blocks}},
	}
}

func transcript() *core.Transcript {
	records := []core.Record{
		{Type: core.RecordSummary, Summary: "Retry logic for the client"},
		record(core.RecordUser, start, core.ContentBlock{Type: core.BlockText, Text: "Add retries\nplease"}),
		record(core.RecordAssistant, start.Add(90*time.Second),
			core.ContentBlock{Type: core.BlockThinking},
			core.ContentBlock{Type: core.BlockToolUse},
			core.ContentBlock{Type: core.BlockText, Text: "Done. token=abcdefghijklmnopqrstuvwxyz0123"},
		),
		record(core.RecordAssistant, start.Add(2*time.Minute)),
	}
	s := core.NewSession("abcd1234-ffff", "/tmp/x.jsonl", "-Users-alex-Code-App", 4096, start, records)
	return &core.Transcript{Session: s, Records: records}
}

func TestRenderTranscript(t *testing.T) {
	r := &Renderer{Width: 100, Location: time.UTC, Redactor: redact.Default()}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, transcript()))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Retry logic for the client")
	assert.Contains(t, out, "App  Dec 5, 2025 10:00 AM  3 messages  4KB")
	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "CLAUDE")
	assert.Contains(t, out, "Add retries")
	assert.NotContains(t, out, "please", "only the first line is shown")
	assert.Contains(t, out, "▸ Thinking...")
	assert.Contains(t, out, "⚙ tool call")
	assert.Contains(t, out, "token=[REDACTED_TOKEN]")
	assert.Contains(t, out, "1m 30s")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("─", 72)), "empty records get no card")
}

func TestRenderTitleFallback(t *testing.T) {
	tr := transcript()
	tr.Session.Summaries = nil
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{Width: 80}).Render(&buf, tr))
	assert.Contains(t, ansi.Strip(buf.String()), "Session abcd1234")
}

func TestRenderSessions(t *testing.T) {
	tr := transcript()
	other := core.NewSession("beef0000-1111", "/tmp/y.jsonl", "-Users-alex-Code-App", 1024, start.Add(-24*time.Hour), nil)

	var buf bytes.Buffer
	r := &Renderer{Width: 120, Location: time.UTC}
	r.RenderSessions(&buf, []SessionRow{
		{Session: tr.Session, Exported: true},
		{Session: other},
	})

	lines := strings.Split(strings.TrimSpace(ansi.Strip(buf.String())), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "● 2025-12-05  abcd1234"))
	assert.Contains(t, lines[0], "Retry logic for the client")
	assert.True(t, strings.HasPrefix(lines[1], "○ 2025-12-04  beef0000"))
	assert.Contains(t, lines[1], "0 msgs")
}

func TestRenderDialogs(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Width: 120}
	r.RenderDialogs(&buf, []core.Dialog{
		{Filename: "2025-12-05_session-abcd1234.md", Public: true, SizeBytes: 2048, SummaryShort: "Client retries"},
		{Filename: "2025-12-06_session-beef0000.md", SizeBytes: 1024},
	})

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "PUBLIC   2025-12-05_session-abcd1234.md     2KB  Client retries")
	assert.Contains(t, out, "PRIVATE  2025-12-06_session-beef0000.md")
}

func TestRenderEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{Width: 80}
	r.RenderSessions(&buf, nil)
	r.RenderDialogs(&buf, nil)
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "No sessions.")
	assert.Contains(t, out, "No exported dialogs.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "first", truncate("first\nsecond", 20))
	got := truncate(strings.Repeat("x", 50), 10)
	assert.Equal(t, "xxxxxxx...", got)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "<1s", formatDuration(500*time.Millisecond))
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "2m", formatDuration(2*time.Minute))
	assert.Equal(t, "1m 30s", formatDuration(90*time.Second))
	assert.Equal(t, "1h 5m", formatDuration(65*time.Minute))
	assert.Equal(t, "3h", formatDuration(3*time.Hour))
}

// Package core defines the data model shared by the log reader, the
// redactor, the renderers and the export coordinator: raw log records, the
// session they belong to, and the exported dialog documents derived from them.
package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Transcript pairs a session with the records parsed from its log. It is the
// unit every renderer consumes.
type Transcript struct {
	Session Session
	Records []Record
}

// Dialog returns the user and assistant records in file order.
func (t *Transcript) Dialog() []Record {
	return DialogRecords(t.Records)
}

// Summaries returns the summary records in file order.
func (t *Transcript) Summaries() []Record {
	var out []Record
	for _, r := range t.Records {
		if r.Type == RecordSummary {
			out = append(out, r)
		}
	}
	return out
}

// RecordType enumerates the kinds of log lines.
type RecordType string

const (
	RecordUser      RecordType = "user"
	RecordAssistant RecordType = "assistant"
	RecordSummary   RecordType = "summary"

	// RecordSnapshot is the file snapshot record. Claude Code writes its type
	// as "file-history-snapshot"; it is metadata and never part of the dialog.
	RecordSnapshot RecordType = "file-history-snapshot"
)

// Record is one parsed line of a session log. Only the fields the exporter
// needs are decoded; everything else on the line is ignored.
type Record struct {
	Type       RecordType     `json:"type"`
	Message    *RecordMessage `json:"message,omitempty"`
	Timestamp  Timestamp      `json:"timestamp"`
	UUID       string         `json:"uuid,omitempty"`
	ParentUUID string         `json:"parentUuid,omitempty"`
	Summary    string         `json:"summary,omitempty"`
}

// RecordMessage wraps the message payload of user and assistant lines.
type RecordMessage struct {
	Content Content `json:"content"`
}

// IsDialog reports whether the record is a user or assistant message.
func (r Record) IsDialog() bool {
	return r.Type == RecordUser || r.Type == RecordAssistant
}

// Text returns the record's extracted text, or "" when it carries no message.
func (r Record) Text() string {
	if r.Message == nil {
		return ""
	}
	return r.Message.Content.Text()
}

// DialogRecords filters records down to user and assistant messages.
func DialogRecords(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if r.IsDialog() {
			out = append(out, r)
		}
	}
	return out
}

// BlockType enumerates content block kinds.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockThinking   BlockType = "thinking"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// ContentBlock is one typed element of a list-shaped message content.
type ContentBlock struct {
	Type BlockType `json:"type"`
	Text string    `json:"text,omitempty"`
}

// Content is message content as it appears on disk: either a plain string or
// a list of typed blocks.
type Content struct {
	String string
	Blocks []ContentBlock
}

// UnmarshalJSON accepts a JSON string or an array of blocks. Any other shape
// decodes to empty content rather than failing the whole record.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Content{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{String: s}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		blocks := make([]ContentBlock, 0, len(raw))
		for _, r := range raw {
			var b struct {
				Type string `json:"type"`
				Text any    `json:"text"`
			}
			if err := json.Unmarshal(r, &b); err != nil {
				continue
			}
			text, _ := b.Text.(string)
			blocks = append(blocks, ContentBlock{Type: BlockType(b.Type), Text: text})
		}
		*c = Content{Blocks: blocks}
	default:
		*c = Content{}
	}
	return nil
}

// MarshalJSON writes the content back in the shape it was read in.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.Blocks != nil {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.String)
}

// Text returns the string content as-is, or the non-empty text blocks joined
// by newlines.
func (c Content) Text() string {
	if c.Blocks == nil {
		return c.String
	}
	var parts []string
	for _, b := range c.Blocks {
		if b.Type == BlockText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Timestamp is a log timestamp. It decodes from epoch milliseconds or from
// an RFC 3339 string; anything else decodes to the zero time.
type Timestamp struct {
	time.Time
}

// UnixMilli builds a Timestamp from epoch milliseconds.
func UnixMilli(ms int64) Timestamp {
	return Timestamp{time.UnixMilli(ms)}
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			*ts = Timestamp{t}
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			*ts = UnixMilli(ms)
			return nil
		}
		*ts = Timestamp{}
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*ts = Timestamp{}
		return nil
	}
	*ts = UnixMilli(int64(f))
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(ts.UnixMilli(), 10)), nil
}

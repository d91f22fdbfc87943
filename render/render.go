// Package render defines the interface for rendering session transcripts
// into output documents.
package render

import (
	"io"

	"github.com/sonnes/claude-export/core"
)

// Renderer writes a transcript to the given writer in a specific format.
type Renderer interface {
	Render(w io.Writer, t *core.Transcript) error
}

// Package debug has helpers producing human readable dumps.
package debug

import (
	"fmt"
	"strings"
)

// TreeWriter accumulates indented lines, one level per depth.
type TreeWriter struct {
	w      *strings.Builder
	indent string
}

// NewTreeWriter creates writer indenting every level with indent, two spaces
// when empty.
func NewTreeWriter(indent string) *TreeWriter {
	if len(indent) == 0 {
		indent = "  "
	}
	return &TreeWriter{
		w:      &strings.Builder{},
		indent: indent,
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString(tw.indent)
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Package debug has helpers producing human readable state dumps.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// List writes label with item count followed by items one level deeper.
func (tw TreeWriter) List(depth int, label string, items []string) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, "%s: %d\n", label, len(items))
	for _, it := range items {
		tw.indent(depth + 1)
		tw.w.WriteString(encodeText(it))
		tw.w.WriteByte('\n')
	}
}

// encodeText quotes non empty text so control characters stay visible.
func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// Package debug assembles indented, tree shaped text for dump tooling.
package debug

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// TreeWriter renders lines at nesting depths onto an underlying writer.
// Output is buffered, call Flush before using the result.
type TreeWriter struct {
	w *bufio.Writer
}

func NewTreeWriter(w io.Writer) *TreeWriter {
	return &TreeWriter{
		w: bufio.NewWriter(w),
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes a labeled value with the value quoted, so control
// characters and whitespace survive inspection.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) Blank() {
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) Flush() error {
	return tw.w.Flush()
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

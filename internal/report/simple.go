package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"corpusprep/internal/model"
)

// SimpleWriter renders a short plain text summary for the terminal.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter writing to output.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s: %s in %s\n",
		summary.RunID, statusText(summary.Status), summary.Duration().Round(time.Millisecond))
	for _, st := range summary.Stages {
		parts := make([]string, 0, len(st.Counts))
		for _, o := range st.Outcomes() {
			parts = append(parts, fmt.Sprintf("%s=%d", o, st.Counts[o]))
		}
		line := strings.Join(parts, " ")
		if line == "" {
			line = "no files"
		}
		fmt.Fprintf(&b, "  %-10s %s\n", st.Stage, line)
		if st.Error != "" {
			fmt.Fprintf(&b, "  %-10s error: %s\n", "", st.Error)
		}
	}
	if n := len(summary.Quarantined); n > 0 {
		fmt.Fprintf(&b, "quarantined %d file(s) into %s\n", n, summary.Quarantine)
	}
	if n := len(summary.Deleted); n > 0 {
		fmt.Fprintf(&b, "deleted %d unmatched file(s)\n", n)
	}
	if n := len(summary.WouldDelete); n > 0 {
		fmt.Fprintf(&b, "dry run: %d unmatched file(s) left in place\n", n)
	}
	if n := len(summary.Stale); n > 0 {
		fmt.Fprintf(&b, "%d output image(s) have no transcript in %s\n", n, summary.Input)
	}

	return io.WriteString(w.output, b.String())
}

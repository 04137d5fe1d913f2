package report

import (
	"io"
	"strconv"
	"time"

	"corpusprep/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter renders a run summary as Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStages(md, summary)
	w.writeFiles(md, "Quarantined", summary.Quarantined)
	w.writeFiles(md, "Deleted", summary.Deleted)
	w.writeFiles(md, "Would Delete", summary.WouldDelete)
	w.writeFiles(md, "Stale Outputs", summary.Stale)
	w.writeFiles(md, "Skipped", summary.Failed)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by corpusprep on %s*", summary.FinishedAt.Format(time.RFC3339))

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Corpus Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + summary.RunID + "`"},
			{"Input", "`" + summary.Input + "`"},
			{"Output", "`" + summary.Output + "`"},
			{"Quarantine", "`" + summary.Quarantine + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().Round(time.Millisecond).String()},
			{"Status", statusText(summary.Status)},
		},
	})
	md.PlainText("")

	switch summary.Status {
	case model.RunPartial:
		md.Warningf("At least one stage failed; see the stage table for details.")
	case model.RunCancelled:
		md.Cautionf("The run was cancelled before all stages finished.")
	}
	if n := len(summary.Failed); n > 0 {
		md.Importantf("%d file(s) could not be processed and were skipped.", n)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeStages(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Stages")
	md.PlainText("")

	if len(summary.Stages) == 0 {
		md.PlainText("No stage was run.")
		md.PlainText("")
		return
	}

	cols := usedColumns(summary)
	header := []string{"Stage"}
	for _, o := range cols {
		header = append(header, string(o))
	}
	header = append(header, "Total", "Error")

	rows := make([][]string, 0, len(summary.Stages))
	for _, st := range summary.Stages {
		row := []string{string(st.Stage)}
		for _, o := range cols {
			row = append(row, strconv.Itoa(st.Counts[o]))
		}
		errText := st.Error
		if errText == "" {
			errText = "-"
		}
		row = append(row, strconv.Itoa(st.Total()), errText)
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")

	if purity := summary.Stage(model.StagePurity); purity != nil && purity.Total() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Purity check"),
			piechart.WithShowData(true),
		)
		for _, o := range purity.Outcomes() {
			chart.LabelAndIntValue(string(o), uint64(purity.Counts[o]))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, title string, files []string) {
	if len(files) == 0 {
		return
	}
	md.H2(title)
	md.PlainText("")
	md.BulletList(files...)
	md.PlainText("")
}

package report

import (
	"io"

	"corpusprep/internal/model"
)

// Writer renders a run summary.
type Writer interface {
	// Write renders summary and returns the number of bytes written.
	Write(summary *model.RunSummary) (int, error)
}

// MultiWriter writes to several Writers in turn and stops at the first
// error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write implements Writer.
func (m *MultiWriter) Write(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText describes the final state of a run.
func statusText(s model.RunStatus) string {
	switch s {
	case model.RunComplete:
		return "complete"
	case model.RunPartial:
		return "partial (a stage failed)"
	case model.RunCancelled:
		return "cancelled"
	default:
		return string(s)
	}
}

// outcomeColumns are the outcomes listed in summary tables, in order.
var outcomeColumns = []model.Outcome{
	model.OutcomeProcessed,
	model.OutcomeUncropped,
	model.OutcomeKept,
	model.OutcomeQuarantined,
	model.OutcomeDeleted,
	model.OutcomeWouldDelete,
	model.OutcomeStale,
	model.OutcomeRenamed,
	model.OutcomeDecodeFailed,
	model.OutcomeFailed,
}

// usedColumns returns the outcomes that occur in at least one stage.
func usedColumns(summary *model.RunSummary) []model.Outcome {
	var cols []model.Outcome
	for _, o := range outcomeColumns {
		for _, st := range summary.Stages {
			if st.Counts[o] > 0 {
				cols = append(cols, o)
				break
			}
		}
	}
	return cols
}

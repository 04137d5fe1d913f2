package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"corpusprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestSummary returns a finished summary with events in every stage.
func createTestSummary() *model.RunSummary {
	s := model.NewRunSummary("run-42", "/corpus/in", "/corpus/out", "/corpus/q")
	for _, st := range []model.Stage{model.StageCrop, model.StageNormalize, model.StageBorder, model.StagePurity, model.StageReconcile} {
		s.BeginStage(st)
	}
	s.Add(model.Event{Stage: model.StageCrop, File: "/corpus/in/a.tif", Outcome: model.OutcomeProcessed})
	s.Add(model.Event{Stage: model.StageCrop, File: "/corpus/in/z.tif", Outcome: model.OutcomeDecodeFailed})
	s.Add(model.Event{Stage: model.StagePurity, File: "/corpus/out/a.tif", Outcome: model.OutcomeKept})
	s.Add(model.Event{Stage: model.StagePurity, File: "/corpus/out/g.tif", Outcome: model.OutcomeQuarantined})
	s.Add(model.Event{Stage: model.StageReconcile, File: "/corpus/in/b.tif", Outcome: model.OutcomeDeleted})
	s.Finish(model.RunComplete)
	return s
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and stage table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(createTestSummary())
		require.NoError(t, err)
		assert.Positive(t, n)

		out := buf.String()
		assert.Contains(t, out, "# Corpus Run Report")
		assert.Contains(t, out, "run-42")
		assert.Contains(t, out, "## Stages")
		assert.Contains(t, out, "decode_failed")
		assert.Contains(t, out, "mermaid")
		assert.Contains(t, out, "Purity check")
	})

	t.Run("lists moved and deleted files", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, err := NewMarkdownWriter(&buf).Write(createTestSummary())
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "## Quarantined")
		assert.Contains(t, out, "/corpus/out/g.tif")
		assert.Contains(t, out, "## Deleted")
		assert.Contains(t, out, "/corpus/in/b.tif")
		assert.Contains(t, out, "## Skipped")
		assert.Contains(t, out, "crop: /corpus/in/z.tif")
	})

	t.Run("warns about partial runs", func(t *testing.T) {
		t.Parallel()

		s := model.NewRunSummary("run-1", "in", "out", "q")
		s.FailStage(model.StageCrop, errors.New("cannot read source directory"))
		s.Finish(model.RunComplete)

		var buf bytes.Buffer
		_, err := NewMarkdownWriter(&buf).Write(s)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "[!WARNING]")
		assert.Contains(t, buf.String(), "cannot read source directory")
	})

	t.Run("handles an empty run", func(t *testing.T) {
		t.Parallel()

		s := model.NewRunSummary("run-0", "in", "out", "q")
		s.Finish(model.RunComplete)

		var buf bytes.Buffer
		_, err := NewMarkdownWriter(&buf).Write(s)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No stage was run.")
		assert.NotContains(t, buf.String(), "## Quarantined")
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, err := NewJSONWriter(&buf).Write(createTestSummary())
		require.NoError(t, err)

		out := buf.String()
		assert.True(t, strings.HasSuffix(out, "\n"))
		assert.Equal(t, 1, strings.Count(out, "\n"))

		var decoded struct {
			RunID       string   `json:"run_id"`
			Status      string   `json:"status"`
			Quarantined []string `json:"quarantined"`
			Stages      []struct {
				Stage  string         `json:"stage"`
				Counts map[string]int `json:"counts"`
			} `json:"stages"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "run-42", decoded.RunID)
		assert.Equal(t, "complete", decoded.Status)
		assert.Equal(t, []string{"/corpus/out/g.tif"}, decoded.Quarantined)
		require.Len(t, decoded.Stages, 5)
		assert.Equal(t, 1, decoded.Stages[0].Counts["processed"])
	})

	t.Run("pretty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestSummary())
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "\n  \"run_id\": \"run-42\"")
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := NewSimpleWriter(&buf).Write(createTestSummary())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run run-42: complete")
	assert.Contains(t, out, "decode_failed=1 processed=1")
	assert.Contains(t, out, "normalize  no files")
	assert.Contains(t, out, "quarantined 1 file(s) into /corpus/q")
	assert.Contains(t, out, "deleted 1 unmatched file(s)")
	assert.NotContains(t, out, "dry run")
}

func TestWritersSeparateDryRunFromDeletion(t *testing.T) {
	t.Parallel()

	s := model.NewRunSummary("run-7", "/corpus/in", "/corpus/out", "/corpus/q")
	s.Add(model.Event{Stage: model.StageReconcile, File: "/corpus/in/b.tif", Outcome: model.OutcomeWouldDelete})
	s.Add(model.Event{Stage: model.StageReconcile, File: "/corpus/out/b.tif", Outcome: model.OutcomeStale})
	s.Finish(model.RunComplete)

	var simple bytes.Buffer
	_, err := NewSimpleWriter(&simple).Write(s)
	require.NoError(t, err)
	assert.Contains(t, simple.String(), "stale=1 would_delete=1")
	assert.Contains(t, simple.String(), "dry run: 1 unmatched file(s) left in place")
	assert.Contains(t, simple.String(), "1 output image(s) have no transcript in /corpus/in")
	assert.NotContains(t, simple.String(), "deleted")

	var md bytes.Buffer
	_, err = NewMarkdownWriter(&md).Write(s)
	require.NoError(t, err)
	assert.Contains(t, md.String(), "## Would Delete")
	assert.Contains(t, md.String(), "## Stale Outputs")
	assert.NotContains(t, md.String(), "## Deleted")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	n, err := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b)).Write(createTestSummary())
	require.NoError(t, err)
	assert.Equal(t, a.Len()+b.Len(), n)
}

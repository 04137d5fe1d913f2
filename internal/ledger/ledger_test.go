package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"corpusprep/internal/config"
	"corpusprep/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()

	l, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func testConfig() config.Config {
	cfg := config.NewConfig()
	cfg.Paths.Input = "/corpus/in"
	cfg.Paths.Output = "/corpus/out"
	cfg.Paths.Quarantine = "/corpus/q"
	return cfg
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "ledger")
		l, err := Open(dir)
		require.NoError(t, err)
		defer l.Close()

		assert.Equal(t, filepath.Join(dir, FileName), l.Path())
		_, err = os.Stat(l.Path())
		assert.NoError(t, err)
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l, err := Open(dir)
		require.NoError(t, err)
		id, err := l.StartRun(context.Background(), testConfig())
		require.NoError(t, err)
		require.NoError(t, l.Close())

		l, err = Open(dir)
		require.NoError(t, err)
		defer l.Close()

		rec, err := l.Run(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.ID)
	})
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	ctx := context.Background()
	cfg := testConfig()

	id, err := l.StartRun(ctx, cfg)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	rec, err := l.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RunRunning, rec.Status)
	assert.Equal(t, "/corpus/in", rec.InputDir)
	assert.Equal(t, "/corpus/out", rec.OutputDir)
	assert.True(t, rec.FinishedAt.IsZero())
	assert.WithinDuration(t, time.Now(), rec.StartedAt, time.Minute)

	var stored config.Config
	require.NoError(t, json.Unmarshal(rec.Config, &stored))
	assert.Equal(t, cfg, stored)

	require.NoError(t, l.FinishRun(ctx, id, model.RunPartial))
	rec, err = l.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RunPartial, rec.Status)
	assert.False(t, rec.FinishedAt.IsZero())
}

func TestUnknownRun(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.Run(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, l.FinishRun(ctx, "nope", model.RunComplete), ErrRunNotFound)

	events, err := l.Events(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecordAndEvents(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	ctx := context.Background()

	id, err := l.StartRun(ctx, testConfig())
	require.NoError(t, err)

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := []model.Event{
		{Stage: model.StageCrop, File: "/in/a.tif", Outcome: model.OutcomeProcessed, Detail: "2 contours", Time: at},
		{Stage: model.StagePurity, File: "/out/a.tif", Outcome: model.OutcomeQuarantined, Time: at.Add(time.Second)},
		{Stage: model.StageReconcile, File: "/in/b.tif", Outcome: model.OutcomeDeleted, Time: at.Add(2 * time.Second)},
	}
	for _, ev := range want {
		require.NoError(t, l.Record(ctx, id, ev))
	}

	got, err := l.Events(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Stage, got[i].Stage)
		assert.Equal(t, want[i].File, got[i].File)
		assert.Equal(t, want[i].Outcome, got[i].Outcome)
		assert.Equal(t, want[i].Detail, got[i].Detail)
		assert.True(t, want[i].Time.Equal(got[i].Time), "time %v != %v", want[i].Time, got[i].Time)
	}
}

func TestRecordConcurrently(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	ctx := context.Background()

	id, err := l.StartRun(ctx, testConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev := model.Event{Stage: model.StageBorder, File: filepath.Join("/out", string(rune('a'+i))), Outcome: model.OutcomeProcessed}
			assert.NoError(t, l.Record(ctx, id, ev))
		}()
	}
	wg.Wait()

	events, err := l.Events(ctx, id)
	require.NoError(t, err)
	assert.Len(t, events, 20)
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	ctx := context.Background()

	var ids []string
	for range 3 {
		id, err := l.StartRun(ctx, testConfig())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := l.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID, "newest run first")
	assert.Equal(t, ids[0], runs[2].ID)

	runs, err = l.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

package main

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"corpusprep/internal/config"
	"corpusprep/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// corpus lays out a temporary input directory and a config file pointing
// at it.
type corpus struct {
	root, configPath string
	cfg              config.Config
}

func newCorpus(t *testing.T) corpus {
	t.Helper()

	root := t.TempDir()
	cfg := config.NewConfig()
	cfg.Paths.Input = filepath.Join(root, "in")
	cfg.Paths.Output = filepath.Join(root, "out")
	cfg.Paths.Quarantine = filepath.Join(root, "q")
	cfg.Resize.Height = 20
	cfg.Workers = 2
	cfg.Ledger.Dir = filepath.Join(root, "ledger")
	require.NoError(t, os.MkdirAll(cfg.Paths.Input, 0o750))

	configPath := filepath.Join(root, config.DefaultConfigFile)
	require.NoError(t, config.WriteDefault(configPath, cfg, false))
	return corpus{root: root, configPath: configPath, cfg: cfg}
}

// addLine writes a 40x100 white line with two black words.
func (c corpus) addLine(t *testing.T, name string, transcript bool) {
	t.Helper()

	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 40, 100, gocv.MatTypeCV8UC1)
	defer m.Close()
	for _, r := range []image.Rectangle{image.Rect(10, 5, 20, 15), image.Rect(60, 20, 80, 30)} {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.SetUCharAt(y, x, 0)
			}
		}
	}
	require.NoError(t, transform.Save(filepath.Join(c.cfg.Paths.Input, name+".tif"), m))
	if transcript {
		require.NoError(t, os.WriteFile(filepath.Join(c.cfg.Paths.Input, name+".gt.txt"), []byte("two words\n"), 0o600))
	}
}

func TestRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("runs every stage", func(t *testing.T) {
		t.Parallel()

		c := newCorpus(t)
		c.addLine(t, "a", true)
		c.addLine(t, "b", false)

		reportPath := filepath.Join(c.root, "reports", "run.md")
		out, err := executeCmd(t, "run", "-c", c.configPath, "--border", "2", "--report", reportPath)
		require.NoError(t, err)
		assert.Contains(t, out, "complete")

		img, err := transform.Load(filepath.Join(c.cfg.Paths.Output, "a.tif"), gocv.IMReadGrayScale)
		require.NoError(t, err)
		defer img.Close()
		assert.Equal(t, 24, img.Rows())
		assert.Equal(t, 60, img.Cols())

		_, err = os.Stat(filepath.Join(c.cfg.Paths.Input, "b.tif"))
		assert.ErrorIs(t, err, os.ErrNotExist, "unpaired image is deleted from the input")
		assert.Contains(t, out, "1 output image(s) have no transcript")

		md, err := os.ReadFile(reportPath)
		require.NoError(t, err)
		assert.Contains(t, string(md), "# Corpus Run Report")
		assert.Contains(t, string(md), "## Stale Outputs")
	})

	t.Run("flags override the file", func(t *testing.T) {
		t.Parallel()

		c := newCorpus(t)
		c.addLine(t, "a", true)

		out2 := filepath.Join(c.root, "elsewhere")
		_, err := executeCmd(t, "run", "-c", c.configPath, "-o", out2, "--height", "10", "--no-ledger")
		require.NoError(t, err)

		img, err := transform.Load(filepath.Join(out2, "a.tif"), gocv.IMReadGrayScale)
		require.NoError(t, err)
		defer img.Close()
		assert.Equal(t, 12, img.Rows())
		_, err = os.Stat(filepath.Join(c.cfg.Ledger.Dir, "corpusprep.db"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("json summary", func(t *testing.T) {
		t.Parallel()

		c := newCorpus(t)
		c.addLine(t, "a", true)

		out, err := executeCmd(t, "run", "-c", c.configPath, "--json", "--dry-run-reconcile")
		require.NoError(t, err)

		var summary struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, "complete", summary.Status)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		t.Parallel()

		c := newCorpus(t)
		_, err := executeCmd(t, "run", "-c", c.configPath, "--crop-policy", "diagonal")
		assert.ErrorIs(t, err, config.ErrInvalidCropPolicy)

		_, err = executeCmd(t, "run", "-c", c.configPath, "--fill", "grey")
		assert.Error(t, err)
	})

	t.Run("missing input directory gives a partial run", func(t *testing.T) {
		t.Parallel()

		c := newCorpus(t)
		_, err := executeCmd(t, "run", "-c", c.configPath, "-i", filepath.Join(c.root, "absent"), "--no-ledger")
		assert.ErrorIs(t, err, errPartialRun)
	})

	t.Run("explicit config must exist", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, "run", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, config.ErrConfigNotFound)
	})
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	c := newCorpus(t)
	c.addLine(t, "a", true)

	_, err := executeCmd(t, "run", "-c", c.configPath)
	require.NoError(t, err)

	out, err := executeCmd(t, "history", "-c", c.configPath, "--json")
	require.NoError(t, err)

	var runs []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "complete", runs[0].Status)

	out, err = executeCmd(t, "history", "-c", c.configPath, runs[0].ID, "--outcome", "kept")
	require.NoError(t, err)
	assert.Contains(t, out, "purity")
	assert.NotContains(t, out, "processed")

	_, err = executeCmd(t, "history", "-c", c.configPath, "no-such-run")
	assert.Error(t, err)
}

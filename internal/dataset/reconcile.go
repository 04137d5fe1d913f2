package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one basename of a directory and which artifacts exist for it.
type Entry struct {
	Basename      string
	HasImage      bool
	HasTranscript bool
}

// Matched reports whether both the image and the transcript exist.
func (e Entry) Matched() bool {
	return e.HasImage && e.HasTranscript
}

// ImagePath returns the image path of e inside dir.
func (e Entry) ImagePath(dir string) string {
	return filepath.Join(dir, e.Basename+ImageExt)
}

// TranscriptPath returns the transcript path of e inside dir.
func (e Entry) TranscriptPath(dir string) string {
	return filepath.Join(dir, e.Basename+TranscriptExt)
}

// Scan lists the training-pair entries of dir, sorted by basename.
// Files that are neither images nor transcripts are ignored. Unlike
// ListImages, hidden files are included so that reconciliation leaves no
// orphan behind.
func Scan(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Entry)
	get := func(base string) *Entry {
		e, ok := byName[base]
		if !ok {
			e = &Entry{Basename: base}
			byName[base] = e
		}
		return e
	}

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		switch {
		case hasTranscriptExt(name):
			stem, _ := SplitName(name)
			get(stem).HasTranscript = true
		case hasImageExt(name):
			stem, _ := SplitName(name)
			get(stem).HasImage = true
		}
	}

	entries := make([]Entry, 0, len(byName))
	for _, e := range byName {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Basename < entries[j].Basename })
	return entries, nil
}

// ReconcileOptions configures Reconcile.
type ReconcileOptions struct {
	// DryRun reports the unmatched files without deleting them.
	DryRun bool
	// Logger receives one info record per deletion. Defaults to slog.Default().
	Logger *slog.Logger
	// OnDelete is called for every removed (or, in dry-run, removable) file.
	OnDelete func(path string)
}

// ReconcileResult lists what Reconcile found and removed.
type ReconcileResult struct {
	// Matched holds the basenames that have both artifacts.
	Matched []string
	// UnmatchedImages and UnmatchedTranscripts hold the paths of the
	// orphaned files. In a normal run they have been deleted.
	UnmatchedImages      []string
	UnmatchedTranscripts []string
}

// Removed returns every orphaned path.
func (r ReconcileResult) Removed() []string {
	out := make([]string, 0, len(r.UnmatchedImages)+len(r.UnmatchedTranscripts))
	out = append(out, r.UnmatchedImages...)
	return append(out, r.UnmatchedTranscripts...)
}

// Reconcile deletes every image in dir without a transcript and every
// transcript without an image, so that afterwards the image and transcript
// basename sets are equal. Deletion is irreversible; it works on file
// names only. A failed removal is returned joined with any others after
// the remaining files have been processed.
func Reconcile(ctx context.Context, dir string, opts ReconcileOptions) (ReconcileResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := Scan(dir)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("scan %s: %w", dir, err)
	}

	var (
		res  ReconcileResult
		errs []error
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var path string
		switch {
		case e.Matched():
			res.Matched = append(res.Matched, e.Basename)
			continue
		case e.HasImage:
			path = e.ImagePath(dir)
		default:
			path = e.TranscriptPath(dir)
		}

		if opts.DryRun {
			logger.Info("would delete unmatched file", "path", path)
		} else {
			if err := os.Remove(path); err != nil {
				errs = append(errs, err)
				continue
			}
			logger.Info("deleted unmatched file", "path", path)
		}

		if e.HasImage {
			res.UnmatchedImages = append(res.UnmatchedImages, path)
		} else {
			res.UnmatchedTranscripts = append(res.UnmatchedTranscripts, path)
		}
		if opts.OnDelete != nil {
			opts.OnDelete(path)
		}
	}

	return res, errors.Join(errs...)
}

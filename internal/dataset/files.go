package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
)

// File extensions of a training pair.
const (
	ImageExt      = ".tif"
	TranscriptExt = ".gt.txt"
)

// IsImage reports whether name is a line image the transforms pick up.
// Hidden files are ignored.
func IsImage(name string) bool {
	return !isHidden(name) && hasImageExt(name)
}

// IsTranscript reports whether name is a transcript file. Hidden files are
// ignored.
func IsTranscript(name string) bool {
	return !isHidden(name) && hasTranscriptExt(name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasImageExt(name string) bool {
	return strings.HasSuffix(name, ImageExt)
}

func hasTranscriptExt(name string) bool {
	return strings.HasSuffix(name, TranscriptExt)
}

// SplitName splits name into stem and extension. The compound transcript
// extension ".gt.txt" is kept whole.
func SplitName(name string) (stem, ext string) {
	if strings.HasSuffix(name, TranscriptExt) {
		return strings.TrimSuffix(name, TranscriptExt), TranscriptExt
	}
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// ListImages returns the paths of all line images directly inside dir,
// sorted by name. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(images)
	return images, nil
}

// MoveFile moves src to dst, replacing dst. When a rename is impossible
// because the directories are on different devices the file is copied and
// the source removed.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return os.Remove(src)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // paths come from the configured corpus directories
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // see above
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"corpusprep/internal/config"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyRenameText is returned when Rename is called without text.
var ErrEmptyRenameText = errors.New("rename text is empty")

// RenamedName returns name with text attached at pos, joined by an
// underscore: "text_name.ext" or "name_text.ext".
func RenamedName(name, text string, pos config.Position) (string, error) {
	stem, ext := SplitName(name)
	switch pos {
	case config.PositionPrefix:
		return text + "_" + stem + ext, nil
	case config.PositionSuffix:
		return stem + "_" + text + ext, nil
	default:
		return "", fmt.Errorf("%w: %q", config.ErrInvalidPosition, pos)
	}
}

func alreadyRenamed(name, text string, pos config.Position) bool {
	stem, _ := SplitName(name)
	if pos == config.PositionPrefix {
		return strings.HasPrefix(stem, text+"_")
	}
	return strings.HasSuffix(stem, "_"+text)
}

// RenameOptions configures Rename.
type RenameOptions struct {
	Logger   *slog.Logger
	OnRename func(from, to string)
}

// RenameResult lists the renames Rename performed.
type RenameResult struct {
	Renamed map[string]string
	Skipped []string
}

// Rename attaches text to the name of every regular file in dir. The text
// is NFC-normalized first. Files that already carry the text at pos are
// skipped, so the operation can be repeated safely. A rename that would
// overwrite an existing file is refused. Per-file errors are collected and
// returned together after every file has been tried.
func Rename(ctx context.Context, dir, text string, pos config.Position, opts RenameOptions) (RenameResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return RenameResult{}, ErrEmptyRenameText
	}
	if !pos.Valid() {
		return RenameResult{}, fmt.Errorf("%w: %q", config.ErrInvalidPosition, pos)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return RenameResult{}, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	res := RenameResult{Renamed: make(map[string]string)}
	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if alreadyRenamed(name, text, pos) {
			res.Skipped = append(res.Skipped, name)
			continue
		}

		newName, err := RenamedName(name, text, pos)
		if err != nil {
			return res, err
		}
		from := filepath.Join(dir, name)
		to := filepath.Join(dir, newName)

		if _, err := os.Lstat(to); err == nil {
			logger.Warn("rename target exists, skipping", "from", from, "to", to)
			errs = append(errs, fmt.Errorf("rename %s: %w", name, os.ErrExist))
			continue
		}
		if err := os.Rename(from, to); err != nil {
			logger.Warn("rename failed", "from", from, "error", err)
			errs = append(errs, err)
			continue
		}

		logger.Info("renamed", "from", from, "to", to)
		res.Renamed[name] = newName
		if opts.OnRename != nil {
			opts.OnRename(from, to)
		}
	}
	return res, errors.Join(errs...)
}

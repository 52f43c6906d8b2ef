// Package loader discovers test sources under a directory and reads
// them into source units for the scanner.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unbound-force/whiff/internal/config"
	"github.com/unbound-force/whiff/internal/taxonomy"
)

// ErrNotDirectory is returned when the scan root exists but is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// Skipped records a file or directory that could not be read. The
// walk continues past it.
type Skipped struct {
	// Path is relative to the scan root, slash-separated.
	Path string `json:"path"`

	// Reason is the underlying error text.
	Reason string `json:"reason"`
}

// Result holds the loaded units along with anything skipped.
type Result struct {
	// Units is sorted by Path.
	Units []taxonomy.SourceUnit

	Skipped []Skipped
}

// Load walks root, selects files accepted by Filter, and reads each
// one into a SourceUnit whose Path is relative to root with forward
// slashes. Hidden directories are not entered. Files that cannot be
// read are recorded in Result.Skipped and do not fail the load.
//
// If cfg.Timeout is non-zero, the walk is bounded by that deadline
// and a context.DeadlineExceeded error is returned when it is hit.
func Load(ctx context.Context, root string, cfg *config.ScanConfig) (*Result, error) {
	if cfg == nil {
		cfg = &config.DefaultConfig().Scan
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening tests directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	res := &Result{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if cfg.Timeout > 0 {
				return fmt.Errorf("walk timed out after %s: %w", cfg.Timeout, ctxErr)
			}
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			if path == root {
				return walkErr
			}
			res.Skipped = append(res.Skipped, Skipped{Path: rel, Reason: walkErr.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			base := d.Name()
			if path != root && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		if !Filter(rel, cfg) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			res.Skipped = append(res.Skipped, Skipped{Path: rel, Reason: readErr.Error()})
			return nil
		}

		res.Units = append(res.Units, taxonomy.SourceUnit{
			Path: rel,
			Text: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(res.Units, func(i, j int) bool {
		return res.Units[i].Path < res.Units[j].Path
	})

	return res, nil
}

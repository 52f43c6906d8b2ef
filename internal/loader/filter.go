package loader

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/unbound-force/whiff/internal/config"
)

// Filter returns true if the given relative path should be read,
// based on the extension list and the include/exclude patterns in
// cfg.
//
// Logic:
//  1. The file name must end in one of cfg.Extensions.
//  2. If include patterns are set, the path must match at least one.
//  3. If the path matches any exclude pattern, it is excluded.
//  4. Otherwise, the file is included.
func Filter(rel string, cfg *config.ScanConfig) bool {
	if cfg == nil {
		cfg = &config.DefaultConfig().Scan
	}

	rel = filepath.ToSlash(rel)

	if !hasExtension(rel, cfg.Extensions) {
		return false
	}

	if len(cfg.Include) > 0 {
		matched := false
		for _, pattern := range cfg.Include {
			if matchGlob(pattern, rel) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range cfg.Exclude {
		if matchGlob(pattern, rel) {
			return false
		}
	}

	return true
}

func hasExtension(rel string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(rel, ext) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against a doublestar
// pattern. Patterns without a separator also match the base name,
// so "*IT.java" excludes integration tests at any depth.
func matchGlob(pattern, rel string) bool {
	if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, err := doublestar.Match(pattern, filepath.Base(rel))
		return err == nil && ok
	}
	return false
}

package repo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnorePatterns are directory trees that never contain
// hand-written Java sources worth indexing.
var DefaultIgnorePatterns = []string{
	".git/**",
	"build/**",
	"target/**",
	"out/**",
	"node_modules/**",
	"**/generated/**",
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds Java source files under a root, honoring ignore globs.
type Discovery struct {
	rootDir        string
	ignorePatterns []compiledPattern
}

// NewDiscovery creates a discovery instance for the given root.
// A nil ignore list falls back to DefaultIgnorePatterns.
func NewDiscovery(rootDir string, ignorePatterns []string) (*Discovery, error) {
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnorePatterns
	}

	d := &Discovery{rootDir: rootDir}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// JavaFiles walks the root and returns every non-ignored .java file,
// in deterministic walk order.
func (d *Discovery) JavaFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".java") {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	for _, cp := range d.ignorePatterns {
		if cp.glob.Match(relPath) {
			return true
		}
	}
	return false
}

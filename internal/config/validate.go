package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidDepth indicates an out-of-range exploration depth
	ErrInvalidDepth = errors.New("invalid analysis depth")

	// ErrInvalidMaxFiles indicates an invalid file cap
	ErrInvalidMaxFiles = errors.New("invalid max files")

	// ErrInvalidIgnorePattern indicates an uncompilable ignore glob
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidCloneDepth indicates an invalid shallow clone depth
	ErrInvalidCloneDepth = errors.New("invalid clone depth")
)

// maxDepth bounds exploration so a single request cannot walk an
// entire large call graph.
const maxDepth = 10

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateAnalysis(&cfg.Analysis); err != nil {
		errs = append(errs, err)
	}

	if err := validateSource(&cfg.Source); err != nil {
		errs = append(errs, err)
	}

	if err := validateGit(&cfg.Git); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateAnalysis(cfg *AnalysisConfig) error {
	var errs []error

	if cfg.Depth < 0 || cfg.Depth > maxDepth {
		errs = append(errs, fmt.Errorf("%w: depth must be between 0 and %d, got %d", ErrInvalidDepth, maxDepth, cfg.Depth))
	}

	if cfg.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_files must be positive, got %d", ErrInvalidMaxFiles, cfg.MaxFiles))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSource(cfg *SourceConfig) error {
	var errs []error

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnorePattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateGit(cfg *GitConfig) error {
	if cfg.CloneDepth <= 0 {
		return fmt.Errorf("%w: clone_depth must be positive, got %d", ErrInvalidCloneDepth, cfg.CloneDepth)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

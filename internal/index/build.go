package index

import (
	"context"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stacklens/internal/javasrc"
	"stacklens/internal/repo"
)

// DefaultMaxFiles bounds indexing work per request; repositories larger
// than this are indexed up to the cap in discovery order.
const DefaultMaxFiles = 5000

// Options configures a Build run.
type Options struct {
	MaxFiles int               // 0 means DefaultMaxFiles
	OnFile   func(path string) // progress callback, invoked per file
}

// parsedFile carries one file's extraction to the merge step.
type parsedFile struct {
	path string
	file *javasrc.File
}

// Build reads and parses the given files and assembles the index.
// Files are parsed concurrently; merging happens afterwards in input
// order so the maps are deterministic for an unchanged file list. A
// file that cannot be decoded or parsed is logged and skipped, never
// fatal to the build.
func Build(ctx context.Context, files []string, opts Options) (*Index, error) {
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if len(files) > maxFiles {
		log.Printf("indexing capped at %d of %d files", maxFiles, len(files))
		files = files[:maxFiles]
	}

	results := make([]parsedFile, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = parsedFile{path: path, file: parseOne(path)}
			if opts.OnFile != nil {
				opts.OnFile(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := newIndex()
	for _, r := range results {
		if r.file == nil {
			continue
		}
		idx.addFile(r.file, r.path)
	}

	if err := idx.finalize(); err != nil {
		return nil, err
	}
	return idx, nil
}

// parseOne reads and parses a single file, returning nil on failure.
func parseOne(path string) *javasrc.File {
	content, err := repo.ReadFile(path)
	if err != nil {
		log.Printf("failed to read %s: %v", path, err)
		return nil
	}

	file, err := javasrc.Parse([]byte(content))
	if err != nil {
		log.Printf("failed to parse %s: %v", path, err)
		return nil
	}
	return file
}

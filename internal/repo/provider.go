package repo

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Source identifies where a request's code comes from: either a local
// checkout path or a remote URL to clone.
type Source struct {
	RepoURL    string // remote to clone; mutually exclusive with Path
	Path       string // existing local checkout
	Token      string // optional auth token for https remotes
	CloneDepth int    // shallow clone depth, 0 means DefaultCloneDepth
}

// Workspace is a resolved source tree for one request.
// Close releases any temp checkout created during acquisition.
type Workspace struct {
	Root      string
	temporary bool
	gitRepo   bool
}

// JavaFiles returns the workspace's discoverable Java sources.
func (w *Workspace) JavaFiles(ignorePatterns []string) ([]string, error) {
	d, err := NewDiscovery(w.Root, ignorePatterns)
	if err != nil {
		return nil, err
	}
	return d.JavaFiles()
}

// LastCommit returns commit metadata for a file, or nil when the
// workspace has no git history.
func (w *Workspace) LastCommit(filePath string) *CommitInfo {
	if !w.gitRepo {
		return nil
	}
	return LastCommit(w.Root, filePath)
}

// Close removes the temp checkout, if any.
func (w *Workspace) Close() error {
	if !w.temporary {
		return nil
	}
	if err := os.RemoveAll(w.Root); err != nil {
		log.Printf("failed to clean up clone %s: %v", w.Root, err)
		return err
	}
	return nil
}

// Provider acquires a source tree for analysis. Acquisition failures are
// fatal for the request and carry the underlying cause.
type Provider interface {
	Acquire(ctx context.Context, src Source) (*Workspace, error)
}

// provider is the default implementation: local paths as-is, remote URLs
// via git clone into a temp directory.
type provider struct{}

// NewProvider returns the default source provider.
func NewProvider() Provider {
	return &provider{}
}

func (p *provider) Acquire(ctx context.Context, src Source) (*Workspace, error) {
	if src.Path != "" {
		info, err := os.Stat(src.Path)
		if err != nil {
			return nil, fmt.Errorf("source path unavailable: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("source path %s is not a directory", src.Path)
		}
		return &Workspace{Root: src.Path, gitRepo: IsRepo(src.Path)}, nil
	}

	if src.RepoURL == "" {
		return nil, fmt.Errorf("either a repo URL or a local path is required")
	}

	dir, err := Clone(ctx, src.RepoURL, src.Token, src.CloneDepth)
	if err != nil {
		return nil, err
	}
	return &Workspace{Root: dir, temporary: true, gitRepo: true}, nil
}

package repo

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCloneDepth keeps shallow clones cheap while still carrying
// enough history for per-file recency lookups.
const DefaultCloneDepth = 50

// Clone clones a repository into a fresh temp directory and returns the
// checkout path. A non-empty token is injected into https remote URLs
// the way hosting providers expect for read access. A depth of zero or
// less falls back to DefaultCloneDepth.
func Clone(ctx context.Context, repoURL, token string, depth int) (string, error) {
	if depth <= 0 {
		depth = DefaultCloneDepth
	}

	tempDir, err := os.MkdirTemp("", "stacklens-clone-")
	if err != nil {
		return "", fmt.Errorf("failed to create clone directory: %w", err)
	}

	cloneURL := repoURL
	if token != "" && strings.HasPrefix(repoURL, "https://") {
		cloneURL = strings.Replace(repoURL, "https://", "https://"+token+"@", 1)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", fmt.Sprint(depth), cloneURL, tempDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("git clone failed: %s", strings.TrimSpace(scrubToken(string(output), token)))
	}

	return tempDir, nil
}

// scrubToken removes the auth token from anything we surface. An empty
// token scrubs nothing: ReplaceAll with an empty pattern would insert
// the replacement between every byte of the message.
func scrubToken(msg, token string) string {
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "***")
}

// IsRepo reports whether dir is inside a git worktree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	output, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

// LastCommit returns the last commit that touched the given file, or nil
// when the file has no history or git is unavailable. Metadata absence
// is not an error: ranking degrades to a zero recency score.
func LastCommit(repoPath, filePath string) *CommitInfo {
	relPath, err := filepath.Rel(repoPath, filePath)
	if err != nil {
		relPath = filePath
	}

	cmd := exec.Command("git", "log", "-1", "--format=%H%n%an%n%ae%n%aI%n%s", "--", relPath)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		log.Printf("git log failed for %s: %v", relPath, err)
		return nil
	}

	return parseCommitOutput(string(output))
}

// parseCommitOutput parses the five-line git log format into CommitInfo.
func parseCommitOutput(output string) *CommitInfo {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) < 5 || lines[0] == "" {
		return nil
	}

	return &CommitInfo{
		Hash:    lines[0],
		Author:  lines[1],
		Email:   lines[2],
		Date:    lines[3],
		Message: lines[4],
	}
}

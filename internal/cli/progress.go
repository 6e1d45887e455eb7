package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
)

// indexProgress renders a per-file progress bar during indexing.
type indexProgress struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// newIndexProgress builds a spinner-style bar. The file total is only
// known after discovery inside the analyzer, so the bar runs
// indeterminate and reports throughput instead of completion.
func newIndexProgress(quiet bool) *indexProgress {
	p := &indexProgress{quiet: quiet}
	if quiet {
		return p
	}

	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Indexing Java files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	return p
}

// OnFile advances the bar; safe to hand to index.Options.OnFile.
func (p *indexProgress) OnFile(path string) {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Describe("Indexing " + filepath.Base(path))
	p.bar.Add(1)
}

// Finish closes out the bar once indexing ends.
func (p *indexProgress) Finish() {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Finish()
}

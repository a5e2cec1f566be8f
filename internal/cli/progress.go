package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// fileProgress reports per-file extraction progress on a progress bar.
// A quiet reporter does nothing.
type fileProgress struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
}

func newFileProgress(out io.Writer, quiet bool) *fileProgress {
	return &fileProgress{
		quiet: quiet,
		out:   out,
	}
}

func (p *fileProgress) OnStart(totalFiles int) {
	if p.quiet {
		return
	}

	p.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Extracting functions"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

func (p *fileProgress) OnFileProcessed(fileName string) {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Describe(fileName)
	p.bar.Add(1)
}

func (p *fileProgress) OnComplete() {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Finish()
}

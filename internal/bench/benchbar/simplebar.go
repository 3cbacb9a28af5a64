// Package benchbar provides a really simple progress bar for the benchmarking
// process.
package benchbar

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar is a progress bar safe for concurrent use.
type Bar struct {
	pb          *progressbar.ProgressBar
	description string
	maxItems    int
}

// NewBar returns a bar of maxItems steps rendered to w.
func NewBar(w io.Writer, description string, maxItems int) *Bar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(10),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)

	return &Bar{
		pb:          pb,
		description: description,
		maxItems:    maxItems,
	}
}

// Inc advances the bar by one step.
func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

// Finish fills the bar and stops rendering it.
func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}

// Done returns the number of steps taken.
func (b *Bar) Done() int {
	return int(b.pb.State().CurrentNum)
}

package utils

import (
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress wraps an mpb bar for batch operations. It stays inert when
// disabled or when stderr is not a terminal, so callers never gate
// their Update calls.
type Progress struct {
	container   *mpb.Progress
	bar         *mpb.Bar
	description string
}

const descWidth = 24

// NewProgress creates a progress bar over total steps. Pass
// enabled=false (e.g. from a --no-progress flag) to suppress it.
func NewProgress(total int, enabled bool) *Progress {
	p := &Progress{}
	if !enabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return p
	}

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				if len(p.description) > descWidth {
					return p.description[:descWidth-2] + ".."
				}
				return p.description
			}, decor.WC{W: descWidth, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return p
}

// Update sets the current step and the description shown beside the bar.
func (p *Progress) Update(current int, description string) {
	if p.bar == nil {
		return
	}
	p.description = description
	p.bar.SetCurrent(int64(current))
}

// Finish waits for the bar to render its final state.
func (p *Progress) Finish() {
	if p.container == nil {
		return
	}
	p.container.Wait()
}

package logview

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matrixlogger/mxl/internal/ui"
	"github.com/matrixlogger/mxl/pkg/types"
)

// DefaultPollInterval is the pause between head polls in follow mode.
const DefaultPollInterval = 2 * time.Second

// Follower tails an app's log stream by polling the head page and
// printing entries it has not seen yet, oldest first.
type Follower struct {
	paginator *Paginator
	out       io.Writer
	limiter   *rate.Limiter
	color     bool
}

// NewFollower creates a follower that writes formatted lines to out.
// The poll rate is capped so a fast server cannot turn this into a
// busy loop.
func NewFollower(p *Paginator, out io.Writer, interval time.Duration, color bool) *Follower {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Follower{
		paginator: p,
		out:       out,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		color:     color,
	}
}

// Run prints the current head page and then polls until ctx is
// cancelled. Transient fetch failures are reported once and polling
// continues; cancellation is the only way out.
func (f *Follower) Run(ctx context.Context) error {
	if err := f.paginator.LoadInitial(ctx); err != nil {
		return err
	}
	f.printNew(f.paginator.Entries(), len(f.paginator.Entries()))

	for {
		if err := f.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fresh, err := f.paginator.PollHead(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(f.out, ui.MutedStyle.Render("# fetch failed: "+err.Error()))
			continue
		}
		if fresh > 0 {
			f.printNew(f.paginator.Entries(), fresh)
		}
	}
}

// printNew writes the first n entries of the newest-first list in
// chronological order.
func (f *Follower) printNew(entries []types.LogEntry, n int) {
	for i := n - 1; i >= 0; i-- {
		fmt.Fprintln(f.out, f.formatLine(entries[i]))
	}
}

func (f *Follower) formatLine(entry types.LogEntry) string {
	level := strings.ToUpper(string(entry.EffectiveLevel()))
	line := fmt.Sprintf("[%s] [%-5s] %s",
		entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
		level,
		entry.Message)
	if !f.color {
		return line
	}
	return ui.LevelStyle(entry.EffectiveLevel()).Render(line)
}

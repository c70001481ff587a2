package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lzcapp/PhotoGPSExtractor/internal/logging"
)

// progressWidth pads the status line so a redraw overwrites any previous,
// longer line.
const progressWidth = 80

// Tracker shows a live counter on a single \r-overwritten line. The line is
// redrawn at most twice per second no matter how fast workers finish, and
// only when the count actually changed. On a non-TTY stdout the tracker is
// silent. Workers only call Add, which never blocks.
type Tracker struct {
	label    string
	total    int64
	done     atomic.Int64
	interval time.Duration
	out      io.Writer
	enabled  bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTracker returns a tracker writing to stdout when it is a terminal.
// A total of zero puts the tracker in indeterminate mode: it reports a bare
// running count with no percentage, for phases whose size is unknown up
// front.
func NewTracker(label string, total int) *Tracker {
	return &Tracker{
		label:    label,
		total:    int64(total),
		interval: 500 * time.Millisecond,
		out:      os.Stdout,
		enabled:  logging.IsTerminal(os.Stdout),
	}
}

// Start launches the redraw loop. It is a no-op off-TTY.
func (t *Tracker) Start() {
	if !t.enabled {
		return
	}
	t.stopCh = make(chan struct{})
	t.wg.Add(1)
	go t.loop()
}

func (t *Tracker) loop() {
	defer t.wg.Done()
	tick := time.NewTicker(t.interval)
	defer tick.Stop()
	last := int64(-1)
	for {
		select {
		case <-t.stopCh:
			return
		case <-tick.C:
			cur := t.done.Load()
			if cur == last {
				continue
			}
			last = cur
			t.draw(cur)
		}
	}
}

// Add records n completed items. Safe to call from any goroutine.
func (t *Tracker) Add(n int) {
	t.done.Add(int64(n))
}

// Completed returns the number of items counted so far.
func (t *Tracker) Completed() int64 {
	return t.done.Load()
}

// Stop terminates the redraw loop, draws the final count, and moves to a
// fresh line. Safe to call more than once; a no-op if Start never ran.
func (t *Tracker) Stop() {
	if t.stopCh == nil {
		return
	}
	t.stopOnce.Do(func() {
		close(t.stopCh)
		t.wg.Wait()
		t.draw(t.done.Load())
		fmt.Fprintln(t.out)
	})
}

func (t *Tracker) draw(cur int64) {
	var status string
	if t.total > 0 {
		pct := cur * 100 / t.total
		status = fmt.Sprintf("  %s [%d/%d] %d%%", t.label, cur, t.total, pct)
	} else {
		status = fmt.Sprintf("  %s [%d]", t.label, cur)
	}
	if len(status) < progressWidth {
		status += strings.Repeat(" ", progressWidth-len(status))
	}
	fmt.Fprintf(t.out, "\r%s", status)
}

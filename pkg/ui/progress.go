package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"twitterwipe/pkg/models"
	"twitterwipe/pkg/wiper"
)

const (
	ProgressBar   = "━"
	ProgressEmpty = "─"
	barWidth      = 20
	lineWidth     = 100
)

// Tracker renders a single status line that is rewritten after every
// item. The bar fills per page, since the total is unknown up front.
type Tracker struct {
	mu      sync.Mutex
	out     io.Writer
	label   string
	dryRun  bool
	start   time.Time
	now     func() time.Time
	last    wiper.Result
	current string
	drawn   bool
}

// NewTracker creates a tracker for label, e.g. "@jack"
func NewTracker(out io.Writer, label string, dryRun bool) *Tracker {
	return &Tracker{
		out:    out,
		label:  label,
		dryRun: dryRun,
		start:  time.Now(),
		now:    time.Now,
	}
}

// Update records the latest item and totals and redraws the line. Its
// signature matches wiper.ProgressFunc.
func (t *Tracker) Update(item models.Item, r wiper.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = r
	t.current = item.ID
	t.draw()
}

// Rate returns processed items per minute
func (t *Tracker) Rate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rate()
}

func (t *Tracker) rate() float64 {
	elapsed := t.now().Sub(t.start).Minutes()
	if elapsed <= 0 {
		return 0
	}
	return float64(t.processed()) / elapsed
}

func (t *Tracker) processed() int {
	if t.dryRun {
		return t.last.Listed
	}
	return t.last.Applied + t.last.Skipped
}

// Line returns the status line without terminal control characters
func (t *Tracker) Line() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line()
}

func (t *Tracker) line() string {
	inPage := t.last.Listed % models.MaxResults
	if inPage == 0 && t.last.Listed > 0 {
		inPage = models.MaxResults
	}
	filled := inPage * barWidth / models.MaxResults
	bar := strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, barWidth-filled)

	verb := "done"
	if t.dryRun {
		verb = "listed"
	}

	line := fmt.Sprintf("%s [%s] %d %s • page %d • %.1f/min",
		t.label, bar, t.processed(), verb, t.last.Pages, t.rate())
	if t.last.Skipped > 0 {
		line += fmt.Sprintf(" • %d skipped", t.last.Skipped)
	}
	if t.current != "" {
		line += " • " + t.current
	}
	return line
}

func (t *Tracker) draw() {
	fmt.Fprintf(t.out, "\r%s\r%s", strings.Repeat(" ", lineWidth), t.line())
	t.drawn = true
}

// Finish ends the status line and prints the summary of r
func (t *Tracker) Finish(r *wiper.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.drawn {
		fmt.Fprintln(t.out)
	}
	if r == nil {
		return
	}

	if t.dryRun {
		fmt.Fprintf(t.out, "%s %d items listed across %d pages in %s (dry run)\n",
			t.label, r.Listed, r.Pages, r.Duration.Round(time.Second))
		return
	}
	fmt.Fprintf(t.out, "%s %d of %d items done, %d skipped, %d pages in %s\n",
		t.label, r.Applied, r.Listed, r.Skipped, r.Pages, r.Duration.Round(time.Second))
}

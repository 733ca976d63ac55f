package runner

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress tracks and renders per-file analysis status to an io.Writer (typically stderr).
// Output is suppressed in JSON mode to avoid corrupting machine-readable output.
type Progress struct {
	w          io.Writer
	suppressed bool
	total      int
	mu         sync.Mutex
	completed  int
	results    []fileStatus
}

type fileStatus struct {
	name     string
	score    int
	passed   bool
	sysErr   bool
	errMsg   string
	duration time.Duration
}

// NewProgress creates a new progress tracker writing to w.
// If suppressed is true, no output is produced (for --json mode).
func NewProgress(w io.Writer, suppressed bool, totalFiles int) *Progress {
	p := &Progress{
		w:          w,
		suppressed: suppressed,
		total:      totalFiles,
	}

	if !suppressed && totalFiles > 0 {
		fmt.Fprintf(w, "⏳ Analyzing %d file(s)...\n", totalFiles)
	}

	return p
}

// OnStart is called when a file is handed to the provider.
func (p *Progress) OnStart(name string) {
	if p.suppressed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "  ⏳ %s\n", name)
}

// OnComplete is called when a file's report is ready. sysErr marks files
// that could not be analyzed at all; errMsg is shown next to them.
func (p *Progress) OnComplete(name string, score int, passed bool, sysErr bool, errMsg string, dur time.Duration) {
	if p.suppressed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
	p.results = append(p.results, fileStatus{
		name:     name,
		score:    score,
		passed:   passed,
		sysErr:   sysErr,
		errMsg:   errMsg,
		duration: dur,
	})

	durStr := formatDuration(dur)
	switch {
	case sysErr:
		fmt.Fprintf(p.w, "  💥 %s  %s  %s\n", name, errMsg, durStr)
	case !passed:
		fmt.Fprintf(p.w, "  ❌ %s  %d/100  %s\n", name, score, durStr)
	default:
		fmt.Fprintf(p.w, "  ✅ %s  %d/100  %s\n", name, score, durStr)
	}
}

// Finish prints a summary line after all files complete.
func (p *Progress) Finish() {
	if p.suppressed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	passed := 0
	failed := 0
	errors := 0
	for _, r := range p.results {
		switch {
		case r.sysErr:
			errors++
		case !r.passed:
			failed++
		default:
			passed++
		}
	}

	fmt.Fprintf(p.w, "\n")
	if failed == 0 && errors == 0 {
		fmt.Fprintf(p.w, "✅ All %d file(s) analyzed\n", passed)
	} else {
		fmt.Fprintf(p.w, "Results: %d passed, %d below threshold, %d errors\n", passed, failed, errors)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

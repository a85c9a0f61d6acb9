package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// batchProgress prints one status line per finished item to stderr.
type batchProgress struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	done    int
	failed  int
	started time.Time
}

func startProgress(out io.Writer, total int) *batchProgress {
	if !progressEnabled() {
		return nil
	}
	return &batchProgress{out: out, total: total, started: time.Now()}
}

func (p *batchProgress) Step(label string, err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	style := defaultStyles()
	if err != nil {
		p.failed++
		fmt.Fprintf(p.out, "[%d/%d] %s %s: %v\n", p.done, p.total, style.Error.Render("failed"), label, err)
		return
	}
	fmt.Fprintf(p.out, "[%d/%d] %s %s\n", p.done, p.total, style.Success.Render("ok"), label)
}

func (p *batchProgress) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%d rendered, %d failed in %s\n", p.done-p.failed, p.failed, formatDuration(time.Since(p.started)))
}

func progressEnabled() bool {
	if IsJSONOutput() || noProgress {
		return false
	}
	if _, ok := os.LookupEnv("PRAISEBOT_NO_PROGRESS"); ok {
		return false
	}
	if _, ok := os.LookupEnv("NO_PROGRESS"); ok {
		return false
	}
	return true
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	if d < time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

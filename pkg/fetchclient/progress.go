package fetchclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	progressBarWidth     = 32
	progressRenderPeriod = 120 * time.Millisecond
)

// progressBar рисует общий ASCII-индикатор для всех параллельных загрузок.
// Per-file messages are printed above it via Logf. A nil bar, or one with a
// nil writer, is a no-op.
type progressBar struct {
	mu            sync.Mutex
	out           io.Writer
	prefix        string
	total         int64
	current       int64
	lastRender    time.Time
	lastLineWidth int
	finished      bool
}

func newProgressBar(out io.Writer, prefix string) *progressBar {
	if out == nil {
		return nil
	}
	return &progressBar{out: out, prefix: prefix}
}

// AddTotal grows the expected byte count as response sizes become known.
func (p *progressBar) AddTotal(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.mu.Lock()
	p.total += n
	p.mu.Unlock()
}

func (p *progressBar) AddBytes(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.current += n
	p.mu.Unlock()
	p.render(false)
}

// Logf prints a message line and redraws the bar below it.
func (p *progressBar) Logf(format string, args ...any) {
	if p == nil {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.out, "\r%s\r%s\n", strings.Repeat(" ", p.lastLineWidth), fmt.Sprintf(format, args...))
	p.lastLineWidth = 0
	p.mu.Unlock()
	p.render(true)
}

func (p *progressBar) render(force bool) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	now := time.Now()
	if !force && now.Sub(p.lastRender) < progressRenderPeriod {
		return
	}
	p.lastRender = now
	p.writeLocked(p.lineLocked(), "")
}

func (p *progressBar) writeLocked(line, suffix string) {
	padding := ""
	if w := len(line) + len(suffix); p.lastLineWidth > w {
		padding = strings.Repeat(" ", p.lastLineWidth-w)
	}
	p.lastLineWidth = len(line) + len(suffix)
	fmt.Fprintf(p.out, "\r%s%s%s", line, suffix, padding)
}

func (p *progressBar) lineLocked() string {
	var b strings.Builder
	b.Grow(len(p.prefix) + 64)
	b.WriteString(p.prefix)
	b.WriteByte(' ')

	if p.total <= 0 {
		b.WriteString(humanize.IBytes(uint64(p.current)))
		b.WriteString(" transferred")
		return b.String()
	}

	ratio := float64(p.current) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := min(int(ratio*progressBarWidth+0.5), progressBarWidth)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", progressBarWidth-filled))
	fmt.Fprintf(&b, "] %3d%% %s/%s", int(ratio*100+0.5), humanize.IBytes(uint64(p.current)), humanize.IBytes(uint64(p.total)))
	return b.String()
}

func (p *progressBar) Finish() {
	p.complete(nil)
}

func (p *progressBar) Fail(err error) {
	p.complete(err)
}

func (p *progressBar) complete(err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.finished = true

	suffix := " ✓"
	if err != nil {
		suffix = fmt.Sprintf(" ✗ %v", err)
	}
	p.writeLocked(p.lineLocked(), suffix)
	fmt.Fprintln(p.out)
}

type progressWriter struct {
	bar *progressBar
}

func (w progressWriter) Write(b []byte) (int, error) {
	w.bar.AddBytes(int64(len(b)))
	return len(b), nil
}

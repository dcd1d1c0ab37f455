package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar displays a progress bar with percentage and description.
// Example: [=========>          ] 45% Checking 2-itemsets...
type ProgressBar struct {
	total       int
	current     int
	description string
	width       int
	mu          sync.Mutex
	writer      io.Writer
}

// NewProgress creates a new progress bar.
func NewProgress(total int, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		description: description,
		width:       40, // default width in characters
		writer:      os.Stdout,
	}
}

// SetWidth sets the width of the progress bar in characters.
func (p *ProgressBar) SetWidth(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
}

// SetWriter sets the output writer (useful for testing).
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// Increment increments the progress by 1 and redraws the bar.
func (p *ProgressBar) Increment() {
	p.IncrementBy(1)
}

// IncrementBy increments the progress by n and redraws the bar.
func (p *ProgressBar) IncrementBy(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += n
	if p.current > p.total {
		p.current = p.total
	}

	p.render()
}

// Finish completes the progress bar and moves to a new line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	alreadyDone := p.current == p.total
	p.current = p.total

	if writerIsTTY(p.writer) {
		p.render()
		fmt.Fprintln(p.writer)
	} else if !alreadyDone {
		// Non-TTY render() only prints at completion; avoid a duplicate line.
		p.render()
	}
}

// render draws the progress bar (must be called with lock held).
func (p *ProgressBar) render() {
	percentage := 0
	filled := 0
	if p.total > 0 {
		percentage = (p.current * 100) / p.total
		filled = (p.current * p.width) / p.total
	}

	bar := strings.Builder{}
	bar.WriteString("[")
	for i := 0; i < p.width; i++ {
		switch {
		case i < filled-1:
			bar.WriteString("=")
		case i == filled-1:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")

	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s %3d%% %s", bar.String(), percentage, p.description)
	} else if p.current == p.total {
		fmt.Fprintf(p.writer, "%s %3d%% %s\n", bar.String(), percentage, p.description)
	}
}

// minProgressCandidates is the level size below which no bar is drawn.
const minProgressCandidates = 1000

// LevelProgress reports mining progress level by level. It satisfies
// mining.Observer: a header per level, a progress bar for large levels and
// a one-line result per level.
type LevelProgress struct {
	mu     sync.Mutex
	writer io.Writer
	bar    *ProgressBar
}

// NewLevelProgress creates a LevelProgress writing to w.
func NewLevelProgress(w io.Writer) *LevelProgress {
	return &LevelProgress{writer: w}
}

// LevelStarted prints the level header and starts a bar for big levels.
func (l *LevelProgress) LevelStarted(k, candidates int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.writer, "\n--- Finding %d-itemsets ---\n", k)
	fmt.Fprintf(l.writer, "Total possible %d-itemsets: %s\n", k, humanize.Comma(int64(candidates)))

	l.bar = nil
	if candidates >= minProgressCandidates && writerIsTTY(l.writer) {
		l.bar = NewProgress(candidates, fmt.Sprintf("Checking %d-itemsets...", k))
		l.bar.SetWriter(l.writer)
	}
}

// Checked advances the bar, if one is shown.
func (l *LevelProgress) Checked(k, n int) {
	l.mu.Lock()
	bar := l.bar
	l.mu.Unlock()

	if bar != nil {
		bar.IncrementBy(n)
	}
}

// LevelFinished closes the bar and prints the level result.
func (l *LevelProgress) LevelFinished(k, frequent int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bar != nil {
		l.bar.Finish()
		l.bar = nil
	}

	fmt.Fprintf(l.writer, "Found %s frequent %d-itemsets\n", humanize.Comma(int64(frequent)), k)
	if frequent == 0 {
		fmt.Fprintf(l.writer, "No frequent %d-itemsets found. Terminating.\n", k)
	}
}

// Package profiling times command phases and exposes pprof flags on the
// CLI. It is inert unless switched on, so call sites can keep their
// Start/Stop spans in place permanently.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stopper ends a timed span, typically via defer.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	took     time.Duration
	children []*span
	owner    *Profiler
}

// Stop records the span duration and pops it off the profiler stack.
func (s *span) Stop() {
	s.took = time.Since(s.start)
	s.owner.pop(s)
}

// Profiler collects nested timing spans. The zero value is disabled and
// every Start on it is free apart from a mutex check.
type Profiler struct {
	mu    sync.Mutex
	on    bool
	root  *span
	stack []*span
}

func (p *Profiler) enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.on {
		return
	}
	p.on = true
	p.root = &span{name: "root", start: time.Now(), owner: p}
	p.stack = []*span{p.root}
}

func (p *Profiler) start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.on {
		return noop{}
	}
	s := &span{name: name, start: time.Now(), owner: p}
	parent := p.stack[len(p.stack)-1]
	parent.children = append(parent.children, s)
	p.stack = append(p.stack, s)
	return s
}

func (p *Profiler) pop(s *span) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Spans are expected to stop in LIFO order. A stray Stop after the
	// stack unwound past it is ignored.
	if len(p.stack) > 1 && p.stack[len(p.stack)-1] == s {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *Profiler) summarize(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.on || p.root == nil {
		return
	}
	if p.root.took == 0 {
		p.root.took = time.Since(p.root.start)
	}
	fmt.Fprintln(w, "\nTiming profile:")
	writeTree(w, p.root, 0, p.root.took)
}

func writeTree(w io.Writer, s *span, depth int, total time.Duration) {
	if s.name != "root" {
		pct := 0.0
		if total > 0 {
			pct = float64(s.took) / float64(total) * 100
		}
		indent := strings.Repeat("  ", depth-1)
		fmt.Fprintf(w, "%s- %s  %v (%.1f%%)\n", indent, s.name, s.took.Round(100*time.Microsecond), pct)
	}
	sort.SliceStable(s.children, func(i, j int) bool {
		return s.children[i].start.Before(s.children[j].start)
	})
	for _, child := range s.children {
		writeTree(w, child, depth+1, total)
	}
}

type noop struct{}

func (noop) Stop() {}

var global = &Profiler{}

// Enable turns on the process-wide profiler.
func Enable() {
	global.enable()
}

// Start opens a span on the process-wide profiler. Always returns a
// usable Stopper, even when profiling is off.
func Start(name string) Stopper {
	return global.start(name)
}

// Summarize writes the span tree collected so far.
func Summarize(w io.Writer) {
	global.summarize(w)
}

// Package trace implements the optional profiling trace: a timestamped,
// depth-indented record of every instrumented step of an invocation. It is
// a debugging aid layered over normal execution and never changes control
// flow.
package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracer writes one line per instrumented step. A nil Tracer is valid and
// discards everything, so callers never need to guard instrumentation points.
type Tracer struct {
	mu    sync.Mutex
	out   io.Writer
	depth int
	now   func() time.Time
}

// New creates a tracer writing to out.
func New(out io.Writer) *Tracer {
	return &Tracer{out: out, now: time.Now}
}

// Step records a single step at the current nesting depth.
func (t *Tracer) Step(format string, args ...any) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(t.depth, fmt.Sprintf(format, args...))
}

// Enter records the start of a named phase and increases the nesting depth.
// The returned function leaves the phase and must be called exactly once.
func (t *Tracer) Enter(name string) func() {
	if t == nil {
		return func() {}
	}
	t.mu.Lock()
	t.write(t.depth, name)
	t.depth++
	t.mu.Unlock()

	start := t.now()
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.depth--
		t.write(t.depth, fmt.Sprintf("%s done in %s", name, t.now().Sub(start)))
	}
}

// write must be called with the mutex held.
func (t *Tracer) write(depth int, msg string) {
	prefix := ""
	for i := 0; i <= depth; i++ {
		prefix += "+"
	}
	fmt.Fprintf(t.out, "%s %s %s\n", prefix, t.now().Format("15:04:05.000000"), msg)
}

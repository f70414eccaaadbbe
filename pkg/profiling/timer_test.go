package profiling

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDisabledProfilerWritesNothing(t *testing.T) {
	p := &Profiler{}

	s := p.start("work")
	s.Stop()

	var buf bytes.Buffer
	p.summarize(&buf)
	if buf.Len() != 0 {
		t.Errorf("Expected no output while disabled, got %q", buf.String())
	}
}

func TestSpanTreeNesting(t *testing.T) {
	p := &Profiler{}
	p.enable()

	outer := p.start("resolve")
	inner := p.start("read-file")
	time.Sleep(time.Millisecond)
	inner.Stop()
	outer.Stop()

	var buf bytes.Buffer
	p.summarize(&buf)
	out := buf.String()

	if !strings.Contains(out, "- resolve") {
		t.Errorf("Expected outer span in summary, got:\n%s", out)
	}
	if !strings.Contains(out, "  - read-file") {
		t.Errorf("Expected nested span indented under its parent, got:\n%s", out)
	}
	if strings.Contains(out, "root") {
		t.Errorf("The synthetic root span should not be printed:\n%s", out)
	}
}

func TestSiblingsKeepStartOrder(t *testing.T) {
	p := &Profiler{}
	p.enable()

	first := p.start("first")
	first.Stop()
	second := p.start("second")
	second.Stop()

	var buf bytes.Buffer
	p.summarize(&buf)
	out := buf.String()

	if strings.Index(out, "first") > strings.Index(out, "second") {
		t.Errorf("Expected spans in call order, got:\n%s", out)
	}
}

func TestGlobalStartIsSafeWhenDisabled(t *testing.T) {
	// Must not panic or record anything on the shared profiler.
	Start("noop").Stop()
}

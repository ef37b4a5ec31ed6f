package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.End()

	child := timer.Child("child")
	child.End()

	var buf bytes.Buffer
	collector.Report(&buf)

	if buf.Len() != 0 {
		t.Errorf("no-op collector should produce no output, got: %s", buf.String())
	}
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	if collector == nil {
		t.Fatal("FromContext should never return nil")
	}
	if _, ok := collector.(noOpCollector); !ok {
		t.Errorf("FromContext should return noOpCollector when none present, got: %T", collector)
	}
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	if !ok || retrieved != collector {
		t.Error("FromContext should return the same collector that was added")
	}
}

func TestStartTimerWithoutCollector(t *testing.T) {
	// Must not panic.
	timer := StartTimer(context.Background(), "anything")
	timer.End()
}

func TestTimingCollectorBasic(t *testing.T) {
	collector := NewTimingCollector()

	timer := collector.Start("calculator.process")
	time.Sleep(time.Millisecond)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	output := buf.String()

	if !strings.Contains(output, "calculator.process") {
		t.Errorf("output should contain the timer name, got: %s", output)
	}
	if !strings.Contains(output, "µs") && !strings.Contains(output, "ms") && !strings.Contains(output, "s") {
		t.Errorf("output should contain a duration, got: %s", output)
	}
}

func TestTimingCollectorHierarchical(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("total")
	child := root.Child("normalize")
	child.End()
	nested := collector.Start("matching")
	nested.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 timer lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "total") {
		t.Errorf("root timer should be unindented, got: %q", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("nested timer should be indented, got: %q", line)
		}
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf)
	if buf.Len() != 0 {
		t.Errorf("empty collector should report nothing, got: %s", buf.String())
	}
}

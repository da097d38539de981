package cli

import (
	"strings"
	"testing"
)

func TestMeter(t *testing.T) {
	if got := Meter(0, 10); got != strings.Repeat("░", 10) {
		t.Errorf("silent meter = %q", got)
	}
	if got := Meter(1, 10); got != strings.Repeat("█", 10) {
		t.Errorf("full meter = %q", got)
	}
	half := Meter(0.5, 10)
	if strings.Count(half, "█") != 5 {
		t.Errorf("half meter = %q", half)
	}

	// Out-of-range levels clamp instead of panicking.
	if got := Meter(2.0, 4); got != strings.Repeat("█", 4) {
		t.Errorf("clamped high = %q", got)
	}
	if got := Meter(-1.0, 4); got != strings.Repeat("░", 4) {
		t.Errorf("clamped low = %q", got)
	}
	if Meter(0.5, 0) != "" {
		t.Error("zero width should render empty")
	}
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		tr.Add(s)
	}
	got := tr.Lines()
	if len(got) != 3 || got[0] != "b" || got[2] != "d" {
		t.Errorf("lines = %v", got)
	}

	tr.AppendToLast("!")
	if lines := tr.Lines(); lines[2] != "d!" {
		t.Errorf("append to last = %v", lines)
	}

	empty := NewTranscript(2)
	empty.AppendToLast("x")
	if lines := empty.Lines(); len(lines) != 1 || lines[0] != "x" {
		t.Errorf("append on empty = %v", lines)
	}
}

package upload

import (
	"testing"
	"time"
)

// fakeClock advances a fixed step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestSamplePercentMonotonic(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Second}
	tr := newTrackerAt(1000, clock.now)

	var last int
	for _, loaded := range []int64{100, 250, 240, 500, 1000} { // 240: a retried chunk reports lower
		p := tr.Sample(loaded)
		if p.Percent < last {
			t.Errorf("percent went backwards: %d after %d", p.Percent, last)
		}
		last = p.Percent
	}
	if last != 100 {
		t.Errorf("final percent = %d, want 100", last)
	}
}

func TestSampleThroughputAndETA(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Second}
	tr := newTrackerAt(1000, clock.now)

	p := tr.Sample(100) // 100 bytes over 1s
	if p.Throughput != 100 {
		t.Errorf("throughput = %v, want 100", p.Throughput)
	}
	// 900 remaining at 100 B/s => 9s
	if p.ETA != "00:09" {
		t.Errorf("eta = %q, want 00:09", p.ETA)
	}

	p = tr.Sample(1000)
	if p.ETA != "" {
		t.Errorf("eta on completion = %q, want empty", p.ETA)
	}
}

func TestFormatETA(t *testing.T) {
	testCases := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{83, "01:23"},
		{3599, "59:59"},
		{3600, ""}, // an hour away: suppressed
		{7200, ""},
		{-1, ""},
	}

	for _, tc := range testCases {
		if got := formatETA(tc.seconds); got != tc.expected {
			t.Errorf("formatETA(%v) = %q, want %q", tc.seconds, got, tc.expected)
		}
	}
}

func TestStateMap(t *testing.T) {
	m := NewStateMap()

	if _, ok := m.Get("l1"); ok {
		t.Error("empty map should have no entry")
	}

	m.Set("l1", Progress{Percent: 40})
	if p, ok := m.Get("l1"); !ok || p.Percent != 40 {
		t.Errorf("Get = %+v, %v", p, ok)
	}
	if got := m.Active(); len(got) != 1 || got[0] != "l1" {
		t.Errorf("Active = %v", got)
	}

	m.Clear("l1")
	if _, ok := m.Get("l1"); ok {
		t.Error("entry should be gone after Clear")
	}
}

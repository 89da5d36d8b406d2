package upload

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Progress is one sample of an in-flight upload, keyed by lesson in
// the StateMap for whatever surface wants to render it.
type Progress struct {
	Percent    int     // 0..100, non-decreasing within one attempt
	Throughput float64 // bytes per second over the last interval
	ETA        string  // "MM:SS", empty when unknown or an hour away
	Bytes      int64   // cumulative bytes transferred
}

// Tracker derives progress figures from cumulative byte counts. Not
// safe for concurrent use; each upload attempt owns one tracker.
type Tracker struct {
	total     int64
	now       func() time.Time
	last      time.Time
	lastBytes int64
	percent   int
}

func NewTracker(total int64) *Tracker {
	return newTrackerAt(total, time.Now)
}

func newTrackerAt(total int64, now func() time.Time) *Tracker {
	return &Tracker{total: total, now: now, last: now()}
}

// Sample records the cumulative byte count and returns the derived
// progress. Percent never goes backwards and reaches exactly 100 when
// loaded equals the total.
func (t *Tracker) Sample(loaded int64) Progress {
	now := t.now()

	pct := t.percent
	if t.total > 0 {
		p := int(math.Round(float64(loaded) / float64(t.total) * 100))
		if p > 100 {
			p = 100
		}
		if p > pct {
			pct = p
		}
	}
	t.percent = pct

	var throughput float64
	if dt := now.Sub(t.last).Seconds(); dt > 0 && loaded > t.lastBytes {
		throughput = float64(loaded-t.lastBytes) / dt
	}

	eta := ""
	if throughput > 0 && loaded < t.total {
		eta = formatETA(float64(t.total-loaded) / throughput)
	}

	t.last = now
	t.lastBytes = loaded

	return Progress{Percent: pct, Throughput: throughput, ETA: eta, Bytes: loaded}
}

// formatETA renders seconds as MM:SS. Projections of an hour or more
// are suppressed (empty string) rather than shown as a scary number.
func formatETA(seconds float64) string {
	if seconds < 0 || seconds >= 3600 {
		return ""
	}
	s := int(math.Round(seconds))
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// StateMap holds the transient per-lesson upload state. Entries exist
// only while an upload attempt is running; they are cleared right
// after the commit or failure so stale progress never lingers.
type StateMap struct {
	mu sync.RWMutex
	m  map[string]Progress
}

func NewStateMap() *StateMap {
	return &StateMap{m: map[string]Progress{}}
}

func (s *StateMap) Set(lessonID string, p Progress) {
	s.mu.Lock()
	s.m[lessonID] = p
	s.mu.Unlock()
}

func (s *StateMap) Get(lessonID string) (Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[lessonID]
	return p, ok
}

func (s *StateMap) Clear(lessonID string) {
	s.mu.Lock()
	delete(s.m, lessonID)
	s.mu.Unlock()
}

// Active returns the lesson ids with an upload in flight.
func (s *StateMap) Active() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	return out
}

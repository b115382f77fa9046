// Package perf keeps a bounded window of request and query timings.
package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the window used when NewCollector gets a non-positive size.
const DefaultRingSize = 4096

// EntryKind separates HTTP requests from SQL statements.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is one timing sample.
type Entry struct {
	Kind       EntryKind
	Label      string // "GET /dashboard" or "SELECT profiles"
	StatusCode int    // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring; the oldest sample is overwritten when full.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	total   atomic.Int64
	errors  atomic.Int64
}

// NewCollector creates a Collector holding at most size samples.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e.
// POST: TotalRecorded grows by one; 5xx requests also count as errors
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.next] = e
	c.next = (c.next + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
	if e.Kind == KindRequest && e.StatusCode >= 500 {
		c.errors.Add(1)
	}
}

// TotalRecorded counts every sample ever recorded.
func (c *Collector) TotalRecorded() int64 { return c.total.Load() }

// LabelStat aggregates the samples of one label.
type LabelStat struct {
	Label   string
	Count   int
	TotalMs float64
	AvgMs   float64
	MaxMs   float64
}

// Snapshot summarises the window.
type Snapshot struct {
	TotalRecorded  int64
	ServerErrors   int64
	Requests       int
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []LabelStat
	SlowestQueries []LabelStat
}

// Snapshot aggregates samples newer than since; top limits both slowest lists.
func (c *Collector) Snapshot(since time.Time, top int) Snapshot {
	c.mu.Lock()
	window := make([]Entry, len(c.entries))
	copy(window, c.entries)
	c.mu.Unlock()

	var durations []float64
	byPath := map[string]*LabelStat{}
	byQuery := map[string]*LabelStat{}
	for _, e := range window {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats := byQuery
		if e.Kind == KindRequest {
			stats = byPath
			durations = append(durations, e.DurationMs)
		}
		s, ok := stats[e.Label]
		if !ok {
			s = &LabelStat{Label: e.Label}
			stats[e.Label] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
	}

	snap := Snapshot{
		TotalRecorded:  c.TotalRecorded(),
		ServerErrors:   c.errors.Load(),
		Requests:       len(durations),
		SlowestPaths:   slowest(byPath, top),
		SlowestQueries: slowest(byQuery, top),
	}
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(rank)), int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func slowest(stats map[string]*LabelStat, top int) []LabelStat {
	out := make([]LabelStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgMs != out[j].AvgMs {
			return out[i].AvgMs > out[j].AvgMs
		}
		return out[i].Label < out[j].Label
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

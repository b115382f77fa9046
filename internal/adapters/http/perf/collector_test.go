package perf

import (
	"sync"
	"testing"
	"time"
)

func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Label: "GET /dashboard", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Label: "GET /dashboard", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Label: "GET /profile", StatusCode: 500, DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Label: "SELECT profiles", DurationMs: 2, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 4 || snap.Requests != 3 || snap.ServerErrors != 1 {
		t.Errorf("snap = %+v", snap)
	}
	if len(snap.SlowestPaths) != 2 || snap.SlowestPaths[0].Label != "GET /dashboard" {
		t.Fatalf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if got := snap.SlowestPaths[0]; got.AvgMs != 20 || got.MaxMs != 30 || got.Count != 2 {
		t.Errorf("dashboard stat = %+v", got)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Label != "SELECT profiles" {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
}

func TestCollector_RingOverwritesOldest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Label: "GET /x", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 0)
	if snap.TotalRecorded != 5 || snap.Requests != 3 {
		t.Errorf("TotalRecorded = %d, Requests = %d", snap.TotalRecorded, snap.Requests)
	}
	if snap.SlowestPaths[0].AvgMs != 3 {
		t.Errorf("AvgMs = %v, want 3 (samples 2,3,4)", snap.SlowestPaths[0].AvgMs)
	}
}

func TestCollector_SinceFilters(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Label: "GET /old", DurationMs: 1, Timestamp: now.Add(-time.Hour)})
	c.Record(Entry{Kind: KindRequest, Label: "GET /new", DurationMs: 1, Timestamp: now})
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Label != "GET /new" {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
}

func TestPercentile(t *testing.T) {
	sorted := make([]float64, 101)
	for i := range sorted {
		sorted[i] = float64(i)
	}
	for _, tt := range []struct{ p, want float64 }{{50, 50}, {95, 95}, {99, 99}, {0, 0}, {100, 100}} {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 50) != 0 {
		t.Error("empty percentile != 0")
	}
	if got := percentile([]float64{10, 20}, 50); got != 15 {
		t.Errorf("interpolated = %v, want 15", got)
	}
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(Entry{Kind: KindQuery, Label: "SELECT account", Timestamp: time.Now()})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 800 {
		t.Errorf("TotalRecorded = %d, want 800", c.TotalRecorded())
	}
}

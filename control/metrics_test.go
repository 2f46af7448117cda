// File: control/metrics_test.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"testing"
	"time"
)

func TestMetricsSetAndSnapshot(t *testing.T) {
	mr := NewMetricsRegistry()

	mr.Set("bytes", int64(42))
	mr.Set("name", "chan0")

	snap := mr.GetSnapshot()
	if snap["bytes"] != int64(42) {
		t.Errorf("bytes = %v", snap["bytes"])
	}
	if snap["name"] != "chan0" {
		t.Errorf("name = %v", snap["name"])
	}

	// Snapshot is a copy, not a live view.
	snap["bytes"] = int64(0)
	if v, _ := mr.Get("bytes"); v != int64(42) {
		t.Error("snapshot mutation leaked into registry")
	}
}

func TestMetricsAdd(t *testing.T) {
	mr := NewMetricsRegistry()

	mr.Add("wakeups", 2)
	mr.Add("wakeups", 3)
	if v, _ := mr.Get("wakeups"); v != int64(5) {
		t.Errorf("wakeups = %v", v)
	}

	// Add over a non-counter value restarts at delta.
	mr.Set("mixed", "text")
	mr.Add("mixed", 7)
	if v, _ := mr.Get("mixed"); v != int64(7) {
		t.Errorf("mixed = %v", v)
	}
}

func TestMetricsLastUpdated(t *testing.T) {
	mr := NewMetricsRegistry()
	if !mr.LastUpdated().IsZero() {
		t.Error("fresh registry must report zero time")
	}
	mr.Set("k", 1)
	if mr.LastUpdated().IsZero() || time.Since(mr.LastUpdated()) > time.Minute {
		t.Error("update time not recorded")
	}
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()

	dp.RegisterProbe("b", func() any { return 2 })
	dp.RegisterProbe("a", func() any { return 1 })

	names := dp.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v", names)
	}

	state := dp.DumpState()
	if state["a"] != 1 || state["b"] != 2 {
		t.Errorf("state = %v", state)
	}

	dp.UnregisterProbe("a")
	if len(dp.Names()) != 1 {
		t.Error("unregister did not remove probe")
	}
}

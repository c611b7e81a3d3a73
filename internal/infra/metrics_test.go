package infra

import (
	"testing"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := &Metrics{}

	m.RecordRequest(1000)
	m.RecordRequest(2000)
	m.RecordRequest(3000)

	snap := m.Snapshot()

	if snap.RequestsSent != 3 {
		t.Errorf("Expected 3 requests, got %d", snap.RequestsSent)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgLatencyNs)
	}
}

func TestMetrics_Viewers(t *testing.T) {
	m := &Metrics{}

	m.IncrementViewers()
	m.IncrementViewers()
	m.IncrementViewers()

	snap := m.Snapshot()
	if snap.LiveViewers != 3 {
		t.Errorf("Expected 3 viewers, got %d", snap.LiveViewers)
	}

	m.DecrementViewers()
	snap = m.Snapshot()
	if snap.LiveViewers != 2 {
		t.Errorf("Expected 2 viewers, got %d", snap.LiveViewers)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordRequest(1000)
	m.RecordError()
	m.RecordResolution()
	m.IncrementViewers()

	m.Reset()
	snap := m.Snapshot()

	if snap.RequestsSent != 0 {
		t.Error("Expected 0 requests after reset")
	}
	if snap.ErrorsTotal != 0 {
		t.Error("Expected 0 errors after reset")
	}
	if snap.RecordsResolved != 0 {
		t.Error("Expected 0 resolutions after reset")
	}
	if snap.LiveViewers != 0 {
		t.Error("Expected 0 viewers after reset")
	}
}

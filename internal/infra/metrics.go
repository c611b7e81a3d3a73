package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	requestsSent    atomic.Uint64
	recordsResolved atomic.Uint64
	errorsTotal     atomic.Uint64

	// Request latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	liveViewers   atomic.Int32 // websocket clients on the live stats feed
	refreshCycles atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordRequest records a backend request with its round-trip latency.
func (m *Metrics) RecordRequest(latencyNs int64) {
	m.requestsSent.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// RecordResolution records a record driven to a terminal status.
func (m *Metrics) RecordResolution() {
	m.recordsResolved.Add(1)
}

// RecordRefreshCycle records a completed dashboard refresh cycle.
func (m *Metrics) RecordRefreshCycle() {
	m.refreshCycles.Add(1)
}

// IncrementViewers increments live feed viewers by 1.
func (m *Metrics) IncrementViewers() {
	m.liveViewers.Add(1)
}

// DecrementViewers decrements live feed viewers by 1.
func (m *Metrics) DecrementViewers() {
	m.liveViewers.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	RequestsSent    uint64
	RecordsResolved uint64
	ErrorsTotal     uint64
	AvgLatencyNs    int64
	LiveViewers     int32
	RefreshCycles   uint64
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		RequestsSent:    m.requestsSent.Load(),
		RecordsResolved: m.recordsResolved.Load(),
		ErrorsTotal:     m.errorsTotal.Load(),
		AvgLatencyNs:    avgLatency,
		LiveViewers:     m.liveViewers.Load(),
		RefreshCycles:   m.refreshCycles.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.requestsSent.Store(0)
	m.recordsResolved.Store(0)
	m.errorsTotal.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.liveViewers.Store(0)
	m.refreshCycles.Store(0)
}

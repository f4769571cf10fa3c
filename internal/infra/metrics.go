package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	commitsAccepted atomic.Uint64
	validReveals    atomic.Uint64
	invalidReveals  atomic.Uint64
	slashes         atomic.Uint64
	batchesSettled  atomic.Uint64
	errorsTotal     atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	gatewayClients atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordCommit records an accepted commitment with operation latency.
func (m *Metrics) RecordCommit(latencyNs int64) {
	m.commitsAccepted.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordReveal records a reveal outcome. valid is false for hash
// mismatches that were recorded as SLASHED.
func (m *Metrics) RecordReveal(valid bool) {
	if valid {
		m.validReveals.Add(1)
	} else {
		m.invalidReveals.Add(1)
	}
}

// RecordSlash records a slashed commitment (unrevealed or invalid reveal).
func (m *Metrics) RecordSlash() {
	m.slashes.Add(1)
}

// RecordBatchSettled records a finalized batch.
func (m *Metrics) RecordBatchSettled() {
	m.batchesSettled.Add(1)
}

// RecordError records a rejected operation.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementClients increments connected gateway clients by 1.
func (m *Metrics) IncrementClients() {
	m.gatewayClients.Add(1)
}

// DecrementClients decrements connected gateway clients by 1.
func (m *Metrics) DecrementClients() {
	m.gatewayClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	CommitsAccepted uint64
	ValidReveals    uint64
	InvalidReveals  uint64
	Slashes         uint64
	BatchesSettled  uint64
	ErrorsTotal     uint64
	AvgLatencyNs    int64
	GatewayClients  int32
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
		CommitsAccepted: m.commitsAccepted.Load(),
		ValidReveals:    m.validReveals.Load(),
		InvalidReveals:  m.invalidReveals.Load(),
		Slashes:         m.slashes.Load(),
		BatchesSettled:  m.batchesSettled.Load(),
		ErrorsTotal:     m.errorsTotal.Load(),
		AvgLatencyNs:    avgLatency,
		GatewayClients:  m.gatewayClients.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.commitsAccepted.Store(0)
	m.validReveals.Store(0)
	m.invalidReveals.Store(0)
	m.slashes.Store(0)
	m.batchesSettled.Store(0)
	m.errorsTotal.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.gatewayClients.Store(0)
}

package infra

import (
	"testing"
)

func TestMetrics_RecordCommit(t *testing.T) {
	m := &Metrics{}

	m.RecordCommit(1000)
	m.RecordCommit(2000)
	m.RecordCommit(3000)

	snap := m.Snapshot()

	if snap.CommitsAccepted != 3 {
		t.Errorf("Expected 3 commits, got %d", snap.CommitsAccepted)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgLatencyNs)
	}
}

func TestMetrics_RecordReveal(t *testing.T) {
	m := &Metrics{}

	m.RecordReveal(true)
	m.RecordReveal(true)
	m.RecordReveal(false)

	snap := m.Snapshot()
	if snap.ValidReveals != 2 {
		t.Errorf("Expected 2 valid reveals, got %d", snap.ValidReveals)
	}
	if snap.InvalidReveals != 1 {
		t.Errorf("Expected 1 invalid reveal, got %d", snap.InvalidReveals)
	}
}

func TestMetrics_Clients(t *testing.T) {
	m := &Metrics{}

	m.IncrementClients()
	m.IncrementClients()
	m.IncrementClients()

	snap := m.Snapshot()
	if snap.GatewayClients != 3 {
		t.Errorf("Expected 3 clients, got %d", snap.GatewayClients)
	}

	m.DecrementClients()
	snap = m.Snapshot()
	if snap.GatewayClients != 2 {
		t.Errorf("Expected 2 clients, got %d", snap.GatewayClients)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordCommit(1000)
	m.RecordReveal(false)
	m.RecordSlash()
	m.RecordBatchSettled()
	m.RecordError()
	m.IncrementClients()

	m.Reset()
	snap := m.Snapshot()

	if snap.CommitsAccepted != 0 {
		t.Error("Expected 0 commits after reset")
	}
	if snap.InvalidReveals != 0 {
		t.Error("Expected 0 invalid reveals after reset")
	}
	if snap.Slashes != 0 {
		t.Error("Expected 0 slashes after reset")
	}
	if snap.ErrorsTotal != 0 {
		t.Error("Expected 0 errors after reset")
	}
	if snap.GatewayClients != 0 {
		t.Error("Expected 0 clients after reset")
	}
}

package service

import (
	"sort"
	"sync"

	"auction_go/internal/domain"
	"auction_go/internal/engine"
)

// AuditService caches settled execution orders and re-verifies them on
// demand. It hangs off the engine's settlement boundary: wire Record as
// the engine's onSettle callback.
type AuditService struct {
	mu      sync.RWMutex
	settled map[uint64]*domain.ExecutionOrder
}

// NewAuditService creates an empty audit cache.
func NewAuditService() *AuditService {
	return &AuditService{
		settled: make(map[uint64]*domain.ExecutionOrder),
	}
}

// Record stores a settled execution order. Safe to call from the engine
// settlement callback.
func (s *AuditService) Record(exec *domain.ExecutionOrder) {
	if exec == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settled[exec.BatchID] = exec
}

// GetSettled returns the execution order of a settled batch, or nil if
// the batch is unknown.
func (s *AuditService) GetSettled(batchID uint64) *domain.ExecutionOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settled[batchID]
}

// GetAllSettled returns every cached execution order sorted by batch id.
func (s *AuditService) GetAllSettled() []*domain.ExecutionOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ExecutionOrder, 0, len(s.settled))
	for _, exec := range s.settled {
		result = append(result, exec)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].BatchID < result[j].BatchID
	})

	return result
}

// Verify replays the ordering of a cached batch and checks it against
// the published result. Returns domain.ErrUnknownBatch for batches that
// were never recorded.
func (s *AuditService) Verify(batchID uint64) error {
	exec := s.GetSettled(batchID)
	if exec == nil {
		return domain.ErrUnknownBatch
	}
	return engine.VerifyExecution(exec)
}

// VerifyAll replays every cached batch and returns the ids of those
// failing verification.
func (s *AuditService) VerifyAll() []uint64 {
	var failed []uint64
	for _, exec := range s.GetAllSettled() {
		if err := engine.VerifyExecution(exec); err != nil {
			failed = append(failed, exec.BatchID)
		}
	}
	return failed
}

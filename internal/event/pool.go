package event

import (
	"sync"
)

// sync.Pool for the two high-frequency event types. Commit and reveal
// events are allocated once per accepted operation; pooling them keeps GC
// pressure flat under bursty batch traffic.
//
// Usage:
//
//	ev := AcquireCommitAcceptedEvent()
//	ev.CommitID = id
//	// ... journal / broadcast ...
//	ReleaseCommitAcceptedEvent(ev)
var commitAcceptedPool = sync.Pool{
	New: func() interface{} {
		return &CommitAcceptedEvent{}
	},
}

// AcquireCommitAcceptedEvent gets a CommitAcceptedEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireCommitAcceptedEvent() *CommitAcceptedEvent {
	return commitAcceptedPool.Get().(*CommitAcceptedEvent)
}

// ReleaseCommitAcceptedEvent returns a CommitAcceptedEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseCommitAcceptedEvent(ev *CommitAcceptedEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.CommitID = ""
	ev.BatchID = 0
	ev.Trader = ""
	ev.Deposit = ""

	commitAcceptedPool.Put(ev)
}

var orderRevealedPool = sync.Pool{
	New: func() interface{} {
		return &OrderRevealedEvent{}
	},
}

// AcquireOrderRevealedEvent gets an OrderRevealedEvent from the pool.
func AcquireOrderRevealedEvent() *OrderRevealedEvent {
	return orderRevealedPool.Get().(*OrderRevealedEvent)
}

// ReleaseOrderRevealedEvent returns an OrderRevealedEvent to the pool.
func ReleaseOrderRevealedEvent(ev *OrderRevealedEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.CommitID = ""
	ev.BatchID = 0
	ev.Valid = false
	ev.PriorityBid = ""

	orderRevealedPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 1000

	commits := make([]*CommitAcceptedEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		commits = append(commits, AcquireCommitAcceptedEvent())
	}
	for _, ev := range commits {
		ReleaseCommitAcceptedEvent(ev)
	}

	reveals := make([]*OrderRevealedEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		reveals = append(reveals, AcquireOrderRevealedEvent())
	}
	for _, ev := range reveals {
		ReleaseOrderRevealedEvent(ev)
	}
}

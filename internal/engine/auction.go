package engine

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"auction_go/internal/domain"
	"auction_go/internal/event"
	"auction_go/internal/infra"

	"github.com/shopspring/decimal"
)

// Config holds the protocol parameters of the auction engine.
type Config struct {
	MinDeposit   decimal.Decimal
	SlashRateBps int64 // 5000 = 50% of the deposit goes to the treasury
	CommitWindow time.Duration
	RevealWindow time.Duration

	// Clock supplies the engine's view of time. Phases are computed
	// lazily from elapsed time on every call; there are no timers.
	// nil means time.Now.
	Clock func() time.Time
}

// batchState is the engine-internal view of one auction round. seedAgg
// accumulates revealed secrets and must never leak before finalization.
type batchState struct {
	domain.Batch
	seedAgg   [32]byte
	revealed  []domain.RevealedOrder
	finalized bool
}

// Auction is the commit-reveal batch auction state machine.
//
// A single mutex serializes every operation: no two calls interleave
// partial effects, mirroring the serial execution model the protocol was
// designed for. External reads return copies, never internal references.
type Auction struct {
	mu sync.Mutex

	cfg   Config
	clock func() time.Time

	store    domain.LedgerStore // optional WAL/ledger collaborator
	metrics  *infra.Metrics
	treasury *domain.Treasury

	commitments map[[32]byte]*domain.OrderCommitment
	batches     map[uint64]*batchState
	current     uint64
	nonce       uint64 // commitment id nonce, strictly increasing
	nextSeq     uint64 // journal sequence

	// Boundary: invoked after a batch settles, outside the engine lock.
	// This is the seam for the settlement/matching collaborator and the
	// gateway.
	onSettle func(*domain.ExecutionOrder)

	logger *slog.Logger
}

// NewAuction creates an auction engine and opens batch 1 in COMMIT phase.
// store may be nil (no persistence); metrics may be nil.
func NewAuction(cfg Config, store domain.LedgerStore, metrics *infra.Metrics, onSettle func(*domain.ExecutionOrder)) *Auction {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	if metrics == nil {
		metrics = infra.GlobalMetrics
	}

	a := &Auction{
		cfg:         cfg,
		clock:       clock,
		store:       store,
		metrics:     metrics,
		treasury:    domain.NewTreasury(),
		commitments: make(map[[32]byte]*domain.OrderCommitment),
		batches:     make(map[uint64]*batchState),
		nextSeq:     1,
		onSettle:    onSettle,
		logger:      slog.Default().With("module", "auction_engine"),
	}
	a.openBatch(clock())
	return a
}

// openBatch appends the next batch in COMMIT phase. Caller holds the lock
// (or is the constructor).
func (a *Auction) openBatch(now time.Time) {
	a.current++
	b := &batchState{
		Batch: domain.Batch{
			ID:                a.current,
			StartTime:         now,
			Phase:             domain.PhaseCommit,
			TotalPriorityBids: decimal.Zero,
		},
	}
	a.batches[a.current] = b
	a.persistBatch(b)
}

// phaseAt computes a batch's phase purely from elapsed time. Arbitrarily
// large clock jumps are fine: a single call may cross both windows.
// PhaseSettled here means "reveal window elapsed"; finalization is a
// separate, explicit step (SettleBatch).
func (a *Auction) phaseAt(b *batchState, now time.Time) string {
	if b.finalized {
		return domain.PhaseSettled
	}
	elapsed := now.Sub(b.StartTime)
	switch {
	case elapsed < a.cfg.CommitWindow:
		return domain.PhaseCommit
	case elapsed < a.cfg.CommitWindow+a.cfg.RevealWindow:
		return domain.PhaseReveal
	default:
		return domain.PhaseSettled
	}
}

// advanceLocked refreshes the current batch's phase field. Idempotent.
func (a *Auction) advanceLocked(now time.Time) {
	b := a.batches[a.current]
	b.Phase = a.phaseAt(b, now)
}

// AdvancePhase recomputes the current batch's phase from elapsed time.
// Idempotent if no transition is due. Phase computation also happens
// lazily inside every other operation, so calling this is never required
// for correctness — it only refreshes the externally visible phase.
func (a *Auction) AdvancePhase() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.advanceLocked(a.clock())
	return nil
}

// CommitOrder stores a new hidden order commitment in the currently open
// batch and returns its id.
func (a *Auction) CommitOrder(trader string, commitHash [32]byte, deposit decimal.Decimal) ([32]byte, error) {
	start := time.Now()
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock()
	a.advanceLocked(now)

	if deposit.LessThan(a.cfg.MinDeposit) {
		a.metrics.RecordError()
		return [32]byte{}, fmt.Errorf("commit: deposit %s: %w", deposit, domain.ErrInsufficientDeposit)
	}

	b := a.batches[a.current]
	if b.Phase != domain.PhaseCommit {
		a.metrics.RecordError()
		return [32]byte{}, &domain.PhaseError{Op: "commit", Have: b.Phase, Want: domain.PhaseCommit}
	}

	id := domain.NewCommitmentID(trader, commitHash, a.nonce)
	a.nonce++

	c := &domain.OrderCommitment{
		ID:         id,
		CommitHash: commitHash,
		Trader:     trader,
		Deposit:    deposit,
		Status:     domain.StatusCommitted,
		BatchID:    b.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	a.commitments[id] = c
	a.persistCommitment(c)

	ev := event.AcquireCommitAcceptedEvent()
	ev.Seq = a.allocSeq()
	ev.Ts = now.UnixMicro()
	ev.CommitID = hex.EncodeToString(id[:])
	ev.BatchID = b.ID
	ev.Trader = trader
	ev.Deposit = deposit.String()
	a.journal(ev)
	event.ReleaseCommitAcceptedEvent(ev)

	a.metrics.RecordCommit(time.Since(start).Nanoseconds())
	a.logger.Debug("commitment accepted",
		slog.String("commit_id", hex.EncodeToString(id[:8])),
		slog.Uint64("batch_id", b.ID))

	return id, nil
}

// RevealOrder discloses the order bound to commitID. A reveal whose
// recomputed hash matches the commitment transitions it to REVEALED and
// folds the secret into the batch seed. A mismatching reveal is NOT an
// error: the commitment is slashed and the call returns nil, so a griefer
// cannot probe-and-retry within the phase.
func (a *Auction) RevealOrder(commitID [32]byte, trader, tokenIn, tokenOut string, amountIn, minOut decimal.Decimal, secret [32]byte, priorityBid decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock()
	a.advanceLocked(now)

	c, ok := a.commitments[commitID]
	if !ok {
		a.metrics.RecordError()
		return domain.ErrUnknownCommitment
	}
	switch c.Status {
	case domain.StatusRevealed:
		a.metrics.RecordError()
		return domain.ErrAlreadyRevealed
	case domain.StatusSlashed:
		a.metrics.RecordError()
		return domain.ErrAlreadySlashed
	}

	b := a.batches[c.BatchID]
	if ph := a.phaseAt(b, now); ph != domain.PhaseReveal {
		a.metrics.RecordError()
		return &domain.PhaseError{Op: "reveal", Have: ph, Want: domain.PhaseReveal}
	}

	recomputed := domain.BuildCommitHash(trader, tokenIn, tokenOut, amountIn, minOut, secret)
	if recomputed != c.CommitHash {
		// Recorded outcome, not a rejection: slash and return nil.
		a.slashLocked(c, now, "invalid_reveal")

		ev := event.AcquireOrderRevealedEvent()
		ev.Seq = a.allocSeq()
		ev.Ts = now.UnixMicro()
		ev.CommitID = hex.EncodeToString(commitID[:])
		ev.BatchID = c.BatchID
		ev.Valid = false
		a.journal(ev)
		event.ReleaseOrderRevealedEvent(ev)

		a.metrics.RecordReveal(false)
		a.logger.Warn("invalid reveal slashed",
			slog.String("commit_id", hex.EncodeToString(commitID[:8])),
			slog.Uint64("batch_id", c.BatchID))
		return nil
	}

	c.Status = domain.StatusRevealed
	c.UpdatedAt = now
	a.persistCommitment(c)

	ord := domain.RevealedOrder{
		Trader:      trader,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		MinOut:      minOut,
		Secret:      secret,
		PriorityBid: priorityBid,
		RevealSeq:   len(b.revealed),
	}
	b.revealed = append(b.revealed, ord)
	b.RevealedCount = len(b.revealed)

	// Incremental form of shuffle.GenerateSeed: XOR keeps the aggregate
	// independent of reveal order.
	for i := range b.seedAgg {
		b.seedAgg[i] ^= secret[i]
	}
	b.TotalPriorityBids = b.TotalPriorityBids.Add(priorityBid)
	a.persistBatch(b)

	ev := event.AcquireOrderRevealedEvent()
	ev.Seq = a.allocSeq()
	ev.Ts = now.UnixMicro()
	ev.CommitID = hex.EncodeToString(commitID[:])
	ev.BatchID = c.BatchID
	ev.Valid = true
	ev.PriorityBid = priorityBid.String()
	a.journal(ev)
	event.ReleaseOrderRevealedEvent(ev)

	a.metrics.RecordReveal(true)
	return nil
}

// SettleBatch finalizes the current batch once its reveal window has
// elapsed: freezes the priority-bid total and the aggregate seed, derives
// the canonical execution order, opens the next batch, and hands the
// order to the settlement boundary. The seed is never exposed before this
// point, so no late revealer can steer the permutation.
func (a *Auction) SettleBatch() (*domain.ExecutionOrder, error) {
	a.mu.Lock()

	now := a.clock()
	a.advanceLocked(now)

	b := a.batches[a.current]
	if b.finalized {
		a.mu.Unlock()
		a.metrics.RecordError()
		return nil, domain.ErrAlreadySettled
	}
	if ph := a.phaseAt(b, now); ph != domain.PhaseSettled {
		a.mu.Unlock()
		a.metrics.RecordError()
		return nil, &domain.PhaseError{Op: "settle", Have: ph, Want: domain.PhaseSettled}
	}

	indices, priorityCount, err := canonicalOrder(b.revealed, b.seedAgg)
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("settle batch %d: %w", b.ID, err)
	}

	b.finalized = true
	b.Phase = domain.PhaseSettled
	b.Seed = b.seedAgg

	orders := make([]domain.RevealedOrder, len(indices))
	for i, idx := range indices {
		orders[i] = b.revealed[idx]
	}
	exec := &domain.ExecutionOrder{
		BatchID:           b.ID,
		Seed:              b.seedAgg,
		TotalPriorityBids: b.TotalPriorityBids,
		PriorityCount:     priorityCount,
		Indices:           indices,
		Orders:            orders,
	}
	a.persistBatch(b)

	ev := &event.BatchSettledEvent{
		BaseEvent:         event.BaseEvent{Seq: a.allocSeq(), Ts: now.UnixMicro()},
		BatchID:           b.ID,
		Seed:              hex.EncodeToString(b.seedAgg[:]),
		TotalPriorityBids: b.TotalPriorityBids.String(),
		RevealedCount:     len(b.revealed),
		PriorityCount:     priorityCount,
		ExecutionOrder:    indices,
	}
	a.journal(ev)

	a.openBatch(now)
	a.metrics.RecordBatchSettled()
	a.logger.Info("batch settled",
		slog.Uint64("batch_id", exec.BatchID),
		slog.Int("revealed", len(b.revealed)),
		slog.Int("priority", priorityCount))

	onSettle := a.onSettle
	a.mu.Unlock()

	// Outside the lock: the callback may query the engine.
	if onSettle != nil {
		onSettle(exec)
	}
	return exec, nil
}

// SlashUnrevealed slashes a commitment that stayed COMMITTED past its
// batch's reveal window. Callable by anyone. Returns the amount credited
// to the treasury.
func (a *Auction) SlashUnrevealed(commitID [32]byte) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock()
	a.advanceLocked(now)

	c, ok := a.commitments[commitID]
	if !ok {
		a.metrics.RecordError()
		return decimal.Zero, domain.ErrUnknownCommitment
	}

	b := a.batches[c.BatchID]
	if ph := a.phaseAt(b, now); ph != domain.PhaseSettled {
		a.metrics.RecordError()
		return decimal.Zero, &domain.PhaseError{Op: "slash", Have: ph, Want: domain.PhaseSettled}
	}

	switch c.Status {
	case domain.StatusRevealed:
		a.metrics.RecordError()
		return decimal.Zero, domain.ErrAlreadyRevealed
	case domain.StatusSlashed:
		a.metrics.RecordError()
		return decimal.Zero, domain.ErrAlreadySlashed
	}

	amount := a.slashLocked(c, now, "unrevealed")
	a.logger.Info("unrevealed commitment slashed",
		slog.String("commit_id", hex.EncodeToString(commitID[:8])),
		slog.String("amount", amount.String()))
	return amount, nil
}

// slashLocked moves a commitment to SLASHED and credits the treasury with
// deposit * SlashRateBps / 10000. Exact decimal arithmetic: the rate is
// applied as bps * 10^-4, a pure scale shift with no division rounding.
func (a *Auction) slashLocked(c *domain.OrderCommitment, now time.Time, reason string) decimal.Decimal {
	amount := c.Deposit.Mul(decimal.New(a.cfg.SlashRateBps, -4))

	c.Status = domain.StatusSlashed
	c.UpdatedAt = now
	a.persistCommitment(c)

	seq := a.allocSeq()
	a.treasury.Credit(amount, seq)
	a.treasury.VerifyInvariant()
	a.persistSlash(c, amount, reason, now)

	sev := &event.CommitSlashedEvent{
		BaseEvent: event.BaseEvent{Seq: a.allocSeq(), Ts: now.UnixMicro()},
		CommitID:  hex.EncodeToString(c.ID[:]),
		BatchID:   c.BatchID,
		Amount:    amount.String(),
		Reason:    reason,
	}
	a.journal(sev)
	a.metrics.RecordSlash()
	return amount
}

// ======================================================================================
// Read-only queries (copies, never internal references)
// ======================================================================================

// GetCommitment returns a copy of a commitment.
func (a *Auction) GetCommitment(commitID [32]byte) (domain.OrderCommitment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.commitments[commitID]
	if !ok {
		return domain.OrderCommitment{}, domain.ErrUnknownCommitment
	}
	return *c, nil
}

// GetBatch returns a copy of a batch snapshot. The seed field is the zero
// digest until the batch is settled.
func (a *Auction) GetBatch(batchID uint64) (domain.Batch, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.batches[batchID]
	if !ok {
		return domain.Batch{}, domain.ErrUnknownBatch
	}
	snap := b.Batch
	snap.Phase = a.phaseAt(b, a.clock())
	return snap, nil
}

// CurrentBatchID returns the id of the currently open batch.
func (a *Auction) CurrentBatchID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// TreasurySnapshot returns a copy of the treasury state.
func (a *Auction) TreasurySnapshot() domain.TreasurySnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.treasury.Snapshot()
}

// ======================================================================================
// Persistence (WAL-first: a failing ledger store halts the engine)
// ======================================================================================

func (a *Auction) allocSeq() uint64 {
	seq := a.nextSeq
	a.nextSeq++
	return seq
}

func (a *Auction) journal(ev event.Event) {
	if a.store == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		panic(fmt.Sprintf("JOURNAL_MARSHAL_FAILURE: %v", err))
	}
	rec := &domain.JournalRecord{
		Seq:       ev.GetSeq(),
		Type:      ev.GetType(),
		Payload:   string(payload),
		CreatedAt: time.UnixMicro(ev.GetTs()),
	}
	if err := a.store.AppendJournal(rec); err != nil {
		panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
	}
}

func (a *Auction) persistCommitment(c *domain.OrderCommitment) {
	if a.store == nil {
		return
	}
	rec := &domain.CommitmentRecord{
		ID:         hex.EncodeToString(c.ID[:]),
		BatchID:    c.BatchID,
		Trader:     c.Trader,
		CommitHash: hex.EncodeToString(c.CommitHash[:]),
		Deposit:    c.Deposit.String(),
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if err := a.store.SaveCommitment(rec); err != nil {
		panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
	}
}

func (a *Auction) persistBatch(b *batchState) {
	if a.store == nil {
		return
	}
	rec := &domain.BatchRecord{
		ID:                b.ID,
		StartTime:         b.StartTime,
		Phase:             b.Phase,
		TotalPriorityBids: b.TotalPriorityBids.String(),
		RevealedCount:     b.RevealedCount,
		UpdatedAt:         time.Now(),
	}
	if b.finalized {
		rec.Seed = hex.EncodeToString(b.Seed[:])
	}
	if err := a.store.SaveBatch(rec); err != nil {
		panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
	}
}

func (a *Auction) persistSlash(c *domain.OrderCommitment, amount decimal.Decimal, reason string, now time.Time) {
	if a.store == nil {
		return
	}
	rec := &domain.SlashRecord{
		CommitmentID: hex.EncodeToString(c.ID[:]),
		BatchID:      c.BatchID,
		Amount:       amount.String(),
		Reason:       reason,
		CreatedAt:    now,
	}
	if err := a.store.SaveSlash(rec); err != nil {
		panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
	}
}

package domain

// LedgerStore is the persistence boundary of the engine. The engine
// journals every accepted mutation through it; implementations must not
// mutate engine state. A nil store is valid (pure in-memory engine, used
// by unit tests).
type LedgerStore interface {
	SaveCommitment(rec *CommitmentRecord) error
	SaveBatch(rec *BatchRecord) error
	SaveSlash(rec *SlashRecord) error
	AppendJournal(rec *JournalRecord) error
}

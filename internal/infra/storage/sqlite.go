package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"auction_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the sqlite-backed ledger collaborator. It persists the
// engine's journal and the historical commitment/batch/slash records.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance. An empty path
// resolves to the OS user config directory.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		resolved, err := getDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		dbPath = resolved
	}

	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(
		&domain.CommitmentRecord{},
		&domain.BatchRecord{},
		&domain.SlashRecord{},
		&domain.JournalRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "BatchAuction", "data", "auction.db"), nil
}

// ======================================================================================
// LedgerStore implementation (engine write path)
// ======================================================================================

// SaveCommitment creates or updates a commitment record.
func (s *Storage) SaveCommitment(rec *domain.CommitmentRecord) error {
	return s.db.Save(rec).Error
}

// SaveBatch creates or updates a batch record.
func (s *Storage) SaveBatch(rec *domain.BatchRecord) error {
	return s.db.Save(rec).Error
}

// SaveSlash appends a slash entry.
func (s *Storage) SaveSlash(rec *domain.SlashRecord) error {
	return s.db.Create(rec).Error
}

// AppendJournal appends one journal entry. Sequence numbers are assigned
// by the engine and must be unique.
func (s *Storage) AppendJournal(rec *domain.JournalRecord) error {
	return s.db.Create(rec).Error
}

// ======================================================================================
// Read queries (audit / gateway)
// ======================================================================================

// GetCommitment retrieves a commitment record by hex id.
func (s *Storage) GetCommitment(id string) (*domain.CommitmentRecord, error) {
	var rec domain.CommitmentRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &rec, err
}

// GetBatch retrieves a batch record by id.
func (s *Storage) GetBatch(id uint64) (*domain.BatchRecord, error) {
	var rec domain.BatchRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rec, err
}

// ListBatchCommitments retrieves all commitments bound to a batch.
func (s *Storage) ListBatchCommitments(batchID uint64) ([]domain.CommitmentRecord, error) {
	var recs []domain.CommitmentRecord
	err := s.db.Where("batch_id = ?", batchID).Order("created_at").Find(&recs).Error
	return recs, err
}

// ListSlashes retrieves all slash entries for a batch.
func (s *Storage) ListSlashes(batchID uint64) ([]domain.SlashRecord, error) {
	var recs []domain.SlashRecord
	err := s.db.Where("batch_id = ?", batchID).Order("id").Find(&recs).Error
	return recs, err
}

// ListJournal retrieves journal entries from seq (inclusive), in order.
func (s *Storage) ListJournal(fromSeq uint64, limit int) ([]domain.JournalRecord, error) {
	var recs []domain.JournalRecord
	err := s.db.Where("seq >= ?", fromSeq).Order("seq").Limit(limit).Find(&recs).Error
	return recs, err
}

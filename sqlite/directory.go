package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/fwojciec/chatdoc"
	"github.com/fwojciec/chatdoc/bloom"
)

// FalsePositiveRate is the Bloom filter error rate for negative lookups.
const FalsePositiveRate = 0.01

// Ensure DirectoryService implements chatdoc.DirectoryService at compile time.
var _ chatdoc.DirectoryService = (*DirectoryService)(nil)

// DirectoryService implements chatdoc.DirectoryService using SQLite.
// Codes that the Bloom filter rules out are answered without a query.
type DirectoryService struct {
	db      *DB
	grammar chatdoc.Grammar

	mu     sync.RWMutex
	filter *bloom.Filter
}

// NewDirectoryService creates a new DirectoryService. It answers
// ENOTFOUND for every code until Replace is called.
func NewDirectoryService(db *DB, grammar chatdoc.Grammar) *DirectoryService {
	return &DirectoryService{
		db:      db,
		grammar: grammar,
		filter:  bloom.NewFilter(0, FalsePositiveRate),
	}
}

// Replace swaps the stored directory for entries. Later entries win over
// earlier ones with the same code. Entries whose code fails the grammar are
// not stored.
func (s *DirectoryService) Replace(ctx context.Context, entries []chatdoc.DirectoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return chatdoc.Errorf(chatdoc.EINTERNAL, "begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM directory"); err != nil {
		return fmt.Errorf("failed to clear directory: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO directory (curp, email, position) VALUES (?, ?, ?)
		ON CONFLICT(curp) DO UPDATE SET email = excluded.email, position = excluded.position
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	filter := bloom.NewFilter(uint(len(entries)), FalsePositiveRate)
	for i, e := range entries {
		code := chatdoc.NormalizeCURP(e.Code)
		if !s.grammar.Validate(code) {
			continue
		}
		if _, err := stmt.ExecContext(ctx, code, e.Email, i); err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", i, err)
		}
		filter.Add(code)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit directory: %w", err)
	}
	s.filter = filter
	return nil
}

// FindEmail returns the email stored for code. The code is normalized and
// validated first; malformed and absent codes both return ENOTFOUND.
func (s *DirectoryService) FindEmail(ctx context.Context, code string) (string, error) {
	code = chatdoc.NormalizeCURP(code)
	if !s.grammar.Validate(code) {
		return "", chatdoc.Errorf(chatdoc.ENOTFOUND, "CURP not found")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.filter.Test(code) {
		return "", chatdoc.Errorf(chatdoc.ENOTFOUND, "CURP not found")
	}

	var email string
	err := s.db.QueryRowContext(ctx, "SELECT email FROM directory WHERE curp = ?", code).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", chatdoc.Errorf(chatdoc.ENOTFOUND, "CURP not found")
	} else if err != nil {
		return "", fmt.Errorf("failed to query directory: %w", err)
	}
	return email, nil
}

// Count returns the number of stored entries.
func (s *DirectoryService) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM directory").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count directory: %w", err)
	}
	return n, nil
}

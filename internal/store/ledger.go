package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/ledger"
	"github.com/dukerupert/paydaypal/internal/model"
)

// LedgerStore keeps one row per member, date key and chore.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func validateEntryKey(dateKey, choreID string) error {
	if err := datekey.Validate(dateKey); err != nil {
		return err
	}
	if strings.TrimSpace(choreID) == "" {
		return fmt.Errorf("%w: chore id is required", model.ErrMalformedInput)
	}
	return nil
}

// Get loads a member's ledger. Zero counts are omitted.
func (s *LedgerStore) Get(householdID, memberID string) (ledger.Ledger, error) {
	rows, err := s.db.Query(
		`SELECT date_key, chore_id, count FROM ledger_entries
		 WHERE household_id = ? AND member_id = ? AND count > 0`,
		householdID, memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	defer rows.Close()

	l := ledger.Ledger{}
	for rows.Next() {
		var dateKey, choreID string
		var count int
		if err := rows.Scan(&dateKey, &choreID, &count); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		l[ledger.Key(dateKey, choreID)] = count
	}
	return l, rows.Err()
}

// Increment adds delta to one entry in a single statement and returns the
// new count, kept within [0, ledger.MaxCount].
func (s *LedgerStore) Increment(householdID, memberID, dateKey, choreID string, delta int) (int, error) {
	if err := validateEntryKey(dateKey, choreID); err != nil {
		return 0, err
	}
	if err := ledger.ValidateDelta(delta); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRow(
		`INSERT INTO ledger_entries (household_id, member_id, date_key, chore_id, count, updated_at)
		 VALUES (?, ?, ?, ?, min(?, max(0, ?)), ?)
		 ON CONFLICT(household_id, member_id, date_key, chore_id)
		 DO UPDATE SET count = min(?, max(0, ledger_entries.count + ?)), updated_at = excluded.updated_at
		 RETURNING count`,
		householdID, memberID, dateKey, choreID, ledger.MaxCount, delta, time.Now().UTC(), ledger.MaxCount, delta,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment ledger entry: %w", err)
	}
	return count, nil
}

// Set writes an absolute count for one entry. Concurrent sets are
// last-writer-wins.
func (s *LedgerStore) Set(householdID, memberID, dateKey, choreID string, count int) error {
	if err := validateEntryKey(dateKey, choreID); err != nil {
		return err
	}
	if err := ledger.ValidateCount(count); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO ledger_entries (household_id, member_id, date_key, chore_id, count, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(household_id, member_id, date_key, chore_id)
		 DO UPDATE SET count = excluded.count, updated_at = excluded.updated_at`,
		householdID, memberID, dateKey, choreID, count, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set ledger entry: %w", err)
	}
	return nil
}

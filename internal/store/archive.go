package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/paydaypal/internal/model"
)

type ArchiveStore struct {
	db *sql.DB
}

func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

func scanArchive(scanner interface{ Scan(...any) error }) (*model.ArchiveRecord, error) {
	var a model.ArchiveRecord
	err := scanner.Scan(&a.ID, &a.HouseholdID, &a.PeriodID, &a.Location, &a.SizeBytes,
		&a.Encrypted, &a.Status, &a.ErrorMessage, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const archiveCols = `id, household_id, period_id, location, size_bytes, encrypted, status, error_message, created_at`

// Record stores the outcome of one statement upload.
func (s *ArchiveStore) Record(rec model.ArchiveRecord) (*model.ArchiveRecord, error) {
	rec.CreatedAt = time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO archives (household_id, period_id, location, size_bytes, encrypted, status, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.HouseholdID, rec.PeriodID, rec.Location, rec.SizeBytes, rec.Encrypted, rec.Status, rec.ErrorMessage, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record archive: %w", err)
	}
	rec.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &rec, nil
}

func (s *ArchiveStore) ListByPeriod(periodID string) ([]model.ArchiveRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+archiveCols+` FROM archives WHERE period_id = ? ORDER BY created_at DESC, id DESC`,
		periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	records := []model.ArchiveRecord{}
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

// LatestCompleted returns the newest successful upload for a period, or nil.
func (s *ArchiveStore) LatestCompleted(periodID string) (*model.ArchiveRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+archiveCols+` FROM archives WHERE period_id = ? AND status = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		periodID, model.ArchiveStatusCompleted,
	)
	a, err := scanArchive(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest completed archive: %w", err)
	}
	return a, nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/model"
)

// PeriodStore persists earning periods. It satisfies period.Store and
// period.Reopener.
type PeriodStore struct {
	db *sql.DB
}

func NewPeriodStore(db *sql.DB) *PeriodStore {
	return &PeriodStore{db: db}
}

func scanPeriod(scanner interface{ Scan(...any) error }) (*model.Period, error) {
	var p model.Period
	var endDate sql.NullString
	err := scanner.Scan(&p.ID, &p.HouseholdID, &p.StartDate, &endDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		p.EndDate = &endDate.String
	}
	return &p, nil
}

const periodCols = `id, household_id, start_date, end_date, created_at`

func insertPeriod(tx execer, householdID, startDate string) (*model.Period, error) {
	if err := datekey.Validate(startDate); err != nil {
		return nil, err
	}
	p := &model.Period{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
		StartDate:   startDate,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := tx.Exec(
		`INSERT INTO periods (id, household_id, start_date, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.HouseholdID, p.StartDate, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: household %s already has an active period", model.ErrInvalidState, householdID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert period: %w", err)
	}
	return p, nil
}

func closePeriod(tx execer, periodID, endDate string) error {
	if err := datekey.Validate(endDate); err != nil {
		return err
	}
	res, err := tx.Exec(
		`UPDATE periods SET end_date = ? WHERE id = ? AND end_date IS NULL`,
		endDate, periodID,
	)
	if err != nil {
		return fmt.Errorf("close period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: period %s is not active", model.ErrInvalidState, periodID)
	}
	return nil
}

// Latest returns the period with the greatest start date, newest creation
// first on ties, or nil when the household has none.
func (s *PeriodStore) Latest(householdID string) (*model.Period, error) {
	row := s.db.QueryRow(
		`SELECT `+periodCols+` FROM periods WHERE household_id = ?
		 ORDER BY start_date DESC, created_at DESC, rowid DESC LIMIT 1`,
		householdID,
	)
	p, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest period: %w", err)
	}
	return p, nil
}

func (s *PeriodStore) Create(householdID, startDate string) (*model.Period, error) {
	return insertPeriod(s.db, householdID, startDate)
}

func (s *PeriodStore) Close(periodID, endDate string) error {
	return closePeriod(s.db, periodID, endDate)
}

// CloseAndOpen closes periodID and opens its successor in one transaction.
func (s *PeriodStore) CloseAndOpen(periodID, endDate, startDate string) (*model.Period, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var householdID string
	err = tx.QueryRow(`SELECT household_id FROM periods WHERE id = ?`, periodID).Scan(&householdID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: period %s", model.ErrNotFound, periodID)
	}
	if err != nil {
		return nil, fmt.Errorf("get period household: %w", err)
	}

	if err := closePeriod(tx, periodID, endDate); err != nil {
		return nil, err
	}
	p, err := insertPeriod(tx, householdID, startDate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reopen: %w", err)
	}
	return p, nil
}

// GetByID returns a period of the household, or nil.
func (s *PeriodStore) GetByID(householdID, id string) (*model.Period, error) {
	row := s.db.QueryRow(
		`SELECT `+periodCols+` FROM periods WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	p, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get period: %w", err)
	}
	return p, nil
}

// ListClosed returns closed periods newest first by creation. When before is
// a period id, only periods created before it are returned.
func (s *PeriodStore) ListClosed(householdID string, limit int, before string) ([]model.Period, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+periodCols+` FROM periods
		 WHERE household_id = ? AND end_date IS NOT NULL
		   AND (? = '' OR (created_at, rowid) < (SELECT created_at, rowid FROM periods WHERE id = ?))
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		householdID, before, before, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list closed periods: %w", err)
	}
	defer rows.Close()

	periods := []model.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, *p)
	}
	return periods, rows.Err()
}

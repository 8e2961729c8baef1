package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/paydaypal/internal/catalog"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/money"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

// HouseholdParams describes a household to create. Empty currency and
// language fall back to EUR and English.
type HouseholdParams struct {
	Name        string
	MemberNames []string
	Currency    model.Currency
	Language    model.Language
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	err := scanner.Scan(&h.ID, &h.Name, &h.Currency, &h.Language, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(&m.ID, &m.Name, &m.Disabled, &m.SortOrder, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var labels, value string
	err := scanner.Scan(&c.ID, &labels, &value, &c.Frequency, &c.Effort, &c.Category, &c.Disabled, &c.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(labels), &c.Labels); err != nil {
		return nil, fmt.Errorf("decode labels for %s: %w", c.ID, err)
	}
	c.Value, err = money.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("decode value for %s: %w", c.ID, err)
	}
	return &c, nil
}

const householdCols = `id, name, currency, language, created_at, updated_at`
const memberCols = `id, name, disabled, sort_order, created_at`
const choreCols = `id, labels, value, frequency, effort, category, disabled, sort_order`

// Create inserts a household with its members, the default chore catalog and
// an open period starting on startDate, all in one transaction.
func (s *HouseholdStore) Create(p HouseholdParams, startDate string) (*model.Household, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: household name is required", model.ErrMalformedInput)
	}
	if p.Currency == "" {
		p.Currency = model.CurrencyEUR
	}
	if p.Language == "" {
		p.Language = model.LanguageEN
	}
	if !p.Currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", model.ErrMalformedInput, p.Currency)
	}
	if !p.Language.Valid() {
		return nil, fmt.Errorf("%w: unsupported language %q", model.ErrMalformedInput, p.Language)
	}

	if len(p.MemberNames) == 0 {
		return nil, fmt.Errorf("%w: at least one member is required", model.ErrMalformedInput)
	}
	seen := make(map[string]bool, len(p.MemberNames))
	for _, n := range p.MemberNames {
		slug := Slug(n)
		if slug == "" {
			return nil, fmt.Errorf("%w: member name is required", model.ErrMalformedInput)
		}
		if seen[slug] {
			return nil, fmt.Errorf("%w: duplicate member %q", model.ErrConflict, slug)
		}
		seen[slug] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := tx.Exec(
		`INSERT INTO households (id, name, currency, language, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, p.Currency, p.Language, now, now,
	); err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}

	for i, n := range p.MemberNames {
		if _, err := tx.Exec(
			`INSERT INTO members (household_id, id, name, sort_order) VALUES (?, ?, ?, ?)`,
			id, Slug(n), strings.TrimSpace(n), i,
		); err != nil {
			return nil, fmt.Errorf("insert member %q: %w", n, err)
		}
	}

	for _, c := range catalog.Defaults() {
		if err := catalog.Validate(c); err != nil {
			return nil, fmt.Errorf("default catalog: %w", err)
		}
		labels, err := json.Marshal(c.Labels)
		if err != nil {
			return nil, fmt.Errorf("encode labels for %s: %w", c.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO chores (household_id, id, labels, value, frequency, effort, category, disabled, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, c.ID, string(labels), c.Value.String(), c.Frequency, c.Effort, c.Category, c.Disabled, c.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("seed chore %q: %w", c.ID, err)
		}
	}

	if _, err := insertPeriod(tx, id, startDate); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit household: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns the household with its members and chores, or nil.
func (s *HouseholdStore) GetByID(id string) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}

	h.Members, err = s.ListMembers(id)
	if err != nil {
		return nil, err
	}
	h.Chores, err = s.ListChores(id)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// List returns all households by name without members or chores.
func (s *HouseholdStore) List() ([]model.Household, error) {
	rows, err := s.db.Query(`SELECT ` + householdCols + ` FROM households ORDER BY name ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	households := []model.Household{}
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}

func (s *HouseholdStore) Rename(id, name string) (*model.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: household name is required", model.ErrMalformedInput)
	}
	_, err := s.db.Exec(
		`UPDATE households SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename household: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) ListMembers(householdID string) ([]model.Member, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM members WHERE household_id = ? ORDER BY sort_order ASC, created_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *HouseholdStore) ListChores(householdID string) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE household_id = ? ORDER BY sort_order ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	chores := []model.Chore{}
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *HouseholdStore) GetMember(householdID, memberID string) (*model.Member, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+` FROM members WHERE household_id = ? AND id = ?`,
		householdID, memberID,
	)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// AddMember appends a member whose id is the slug of name. A name whose slug
// is already taken in the household is a conflict.
func (s *HouseholdStore) AddMember(householdID, name string) (*model.Member, error) {
	slug := Slug(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: member name is required", model.ErrMalformedInput)
	}

	_, err := s.db.Exec(
		`INSERT INTO members (household_id, id, name, sort_order)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM members WHERE household_id = ?))`,
		householdID, slug, strings.TrimSpace(name), householdID,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: member %q already exists", model.ErrConflict, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.GetMember(householdID, slug)
}

// ToggleMember flips a member's disabled flag. Disabling the last enabled
// member is rejected with ErrInvalidState.
func (s *HouseholdStore) ToggleMember(householdID, memberID string) (*model.Member, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var disabled bool
	err = tx.QueryRow(
		`SELECT disabled FROM members WHERE household_id = ? AND id = ?`,
		householdID, memberID,
	).Scan(&disabled)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: member %q", model.ErrNotFound, memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}

	if !disabled {
		var others int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM members WHERE household_id = ? AND id != ? AND disabled = 0`,
			householdID, memberID,
		).Scan(&others); err != nil {
			return nil, fmt.Errorf("count active members: %w", err)
		}
		if others == 0 {
			return nil, fmt.Errorf("%w: %q is the last active member", model.ErrInvalidState, memberID)
		}
	}

	if _, err := tx.Exec(
		`UPDATE members SET disabled = ? WHERE household_id = ? AND id = ?`,
		!disabled, householdID, memberID,
	); err != nil {
		return nil, fmt.Errorf("toggle member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit toggle: %w", err)
	}
	return s.GetMember(householdID, memberID)
}

// Package period manages the open/closed lifecycle of a household's earning
// periods. The current state is always derived from the most recent period
// in storage, never cached.
package period

import (
	"fmt"
	"log/slog"

	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/model"
)

type State string

const (
	StateNoActivePeriod State = "no_active_period"
	StateActivePeriod   State = "active_period"
)

// Status is the derived lifecycle state. Period is set only when active.
type Status struct {
	State  State         `json:"state"`
	Period *model.Period `json:"period,omitempty"`
}

// Store is the persistence the manager needs. Latest returns the period with
// the greatest start date (newest creation wins ties), or nil.
type Store interface {
	Latest(householdID string) (*model.Period, error)
	Create(householdID, startDate string) (*model.Period, error)
	Close(periodID, endDate string) error
}

// Reopener is implemented by stores that can close the active period and open
// its successor atomically.
type Reopener interface {
	CloseAndOpen(periodID, endDate, startDate string) (*model.Period, error)
}

// Derive maps the most recent period to a lifecycle state.
func Derive(latest *model.Period) Status {
	if latest == nil || !latest.Active() {
		return Status{State: StateNoActivePeriod}
	}
	return Status{State: StateActivePeriod, Period: latest}
}

type FinishResult struct {
	Closed model.Period  `json:"closed"`
	Opened *model.Period `json:"opened,omitempty"`
}

type Manager struct {
	store  Store
	clock  datekey.Clock
	logger *slog.Logger
}

func NewManager(store Store, clock datekey.Clock, logger *slog.Logger) *Manager {
	return &Manager{store: store, clock: clock, logger: logger}
}

// Current returns the household's lifecycle state.
func (m *Manager) Current(householdID string) (Status, error) {
	latest, err := m.store.Latest(householdID)
	if err != nil {
		return Status{}, fmt.Errorf("latest period: %w", err)
	}
	return Derive(latest), nil
}

// Start opens a period beginning today. It fails with ErrInvalidState when a
// period is already active.
func (m *Manager) Start(householdID string) (*model.Period, error) {
	status, err := m.Current(householdID)
	if err != nil {
		return nil, err
	}
	if status.State == StateActivePeriod {
		return nil, fmt.Errorf("%w: period %s is already active", model.ErrInvalidState, status.Period.ID)
	}

	p, err := m.store.Create(householdID, datekey.Today(m.clock))
	if err != nil {
		return nil, fmt.Errorf("create period: %w", err)
	}
	m.logger.Info("period started", "household_id", householdID, "period_id", p.ID, "start_date", p.StartDate)
	return p, nil
}

// Finish closes the active period with today's date and, if startNew is set,
// opens the next one starting today. Stores implementing Reopener do both in
// one transaction. Otherwise the close is confirmed before the open is
// issued, so a failed open leaves the household with no active period rather
// than two.
func (m *Manager) Finish(householdID string, startNew bool) (*FinishResult, error) {
	status, err := m.Current(householdID)
	if err != nil {
		return nil, err
	}
	if status.State != StateActivePeriod {
		return nil, fmt.Errorf("%w: no active period", model.ErrInvalidState)
	}

	today := datekey.Today(m.clock)
	closed := *status.Period
	closed.EndDate = &today
	result := &FinishResult{Closed: closed}

	if startNew {
		if r, ok := m.store.(Reopener); ok {
			opened, err := r.CloseAndOpen(closed.ID, today, today)
			if err != nil {
				return nil, fmt.Errorf("close and reopen period: %w", err)
			}
			result.Opened = opened
			m.logger.Info("period finished", "household_id", householdID, "period_id", closed.ID,
				"end_date", today, "next_period_id", opened.ID)
			return result, nil
		}
	}

	if err := m.store.Close(closed.ID, today); err != nil {
		return nil, fmt.Errorf("close period: %w", err)
	}
	m.logger.Info("period finished", "household_id", householdID, "period_id", closed.ID, "end_date", today)

	if !startNew {
		return result, nil
	}
	opened, err := m.store.Create(householdID, today)
	if err != nil {
		m.logger.Error("reopen after close failed", "household_id", householdID, "error", err)
		return result, fmt.Errorf("open next period: %w", err)
	}
	result.Opened = opened
	return result, nil
}

// Package report assembles the history and payday totals of one period from
// storage.
package report

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/paydaypal/internal/catalog"
	"github.com/dukerupert/paydaypal/internal/history"
	"github.com/dukerupert/paydaypal/internal/ledger"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/store"
)

// ledgerLoadLimit bounds concurrent ledger queries per report.
const ledgerLoadLimit = 4

type Report struct {
	Household *model.Household      `json:"-"`
	Period    model.Period          `json:"period"`
	Groups    []history.Group       `json:"groups"`
	Payday    []history.MemberTotal `json:"payday"`
	Total     decimal.Decimal       `json:"total"`
}

type Builder struct {
	households *store.HouseholdStore
	ledgers    *store.LedgerStore
	periods    *store.PeriodStore
}

func NewBuilder(hs *store.HouseholdStore, ls *store.LedgerStore, ps *store.PeriodStore) *Builder {
	return &Builder{households: hs, ledgers: ls, periods: ps}
}

// Build reports on periodID, or on the most recently closed period when
// periodID is empty.
func (b *Builder) Build(householdID, periodID string) (*Report, error) {
	h, err := b.households.GetByID(householdID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: household %s", model.ErrNotFound, householdID)
	}

	p, err := b.resolvePeriod(householdID, periodID)
	if err != nil {
		return nil, err
	}
	return b.ForPeriod(h, *p)
}

// ForPeriod reports on a period of an already loaded household.
func (b *Builder) ForPeriod(h *model.Household, p model.Period) (*Report, error) {
	ledgers, err := LoadLedgers(b.ledgers, h.ID, h.Members)
	if err != nil {
		return nil, err
	}

	groups, err := history.GroupActivities(h.Members, ledgers, h.Chores, p)
	if err != nil {
		return nil, err
	}
	labelEntries(groups, h)
	totals, err := history.Payday(h.Members, ledgers, h.Chores, p)
	if err != nil {
		return nil, err
	}
	return &Report{
		Household: h,
		Period:    p,
		Groups:    groups,
		Payday:    totals,
		Total:     history.Sum(totals),
	}, nil
}

// labelEntries names each entry's chore in the household language. Chores no
// longer in the catalog keep their id.
func labelEntries(groups []history.Group, h *model.Household) {
	labels := make(map[string]string, len(h.Chores))
	for _, c := range h.Chores {
		labels[c.ID] = catalog.Label(c, h.Language)
	}
	for i := range groups {
		for j := range groups[i].Entries {
			e := &groups[i].Entries[j]
			e.ChoreLabel = e.ChoreID
			if label, ok := labels[e.ChoreID]; ok {
				e.ChoreLabel = label
			}
		}
	}
}

func (b *Builder) resolvePeriod(householdID, periodID string) (*model.Period, error) {
	if periodID != "" {
		p, err := b.periods.GetByID(householdID, periodID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: period %s", model.ErrNotFound, periodID)
		}
		return p, nil
	}

	closed, err := b.periods.ListClosed(householdID, 1, "")
	if err != nil {
		return nil, err
	}
	if len(closed) == 0 {
		return nil, fmt.Errorf("%w: household %s has no closed periods", model.ErrNotFound, householdID)
	}
	return &closed[0], nil
}

// LoadLedgers fetches every member's ledger concurrently.
func LoadLedgers(ls *store.LedgerStore, householdID string, members []model.Member) (map[string]ledger.Ledger, error) {
	var (
		mu      sync.Mutex
		g       errgroup.Group
		ledgers = make(map[string]ledger.Ledger, len(members))
	)
	g.SetLimit(ledgerLoadLimit)
	for _, m := range members {
		memberID := m.ID
		g.Go(func() error {
			l, err := ls.Get(householdID, memberID)
			if err != nil {
				return fmt.Errorf("load ledger for %s: %w", memberID, err)
			}
			mu.Lock()
			ledgers[memberID] = l
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ledgers, nil
}

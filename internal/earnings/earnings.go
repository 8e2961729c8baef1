// Package earnings turns a member's ledger into money.
package earnings

import (
	"fmt"

	"github.com/dukerupert/paydaypal/internal/ledger"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/shopspring/decimal"
)

type DayTotal struct {
	DateKey string          `json:"date"`
	Total   decimal.Decimal `json:"total"`
}

// TotalForDates sums value x count over every chore and every supplied day.
// Products are not rounded; see money.Format for rendering.
func TotalForDates(l ledger.Ledger, chores []model.Chore, dateKeys []string) (decimal.Decimal, error) {
	if err := validateValues(chores); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, dateKey := range dateKeys {
		total = total.Add(dayTotal(l, chores, dateKey))
	}
	return total, nil
}

// TotalForDate is TotalForDates for a single day.
func TotalForDate(l ledger.Ledger, chores []model.Chore, dateKey string) (decimal.Decimal, error) {
	return TotalForDates(l, chores, []string{dateKey})
}

// DailyTotals returns one total per supplied day, in input order.
func DailyTotals(l ledger.Ledger, chores []model.Chore, dateKeys []string) ([]DayTotal, error) {
	if err := validateValues(chores); err != nil {
		return nil, err
	}
	totals := make([]DayTotal, 0, len(dateKeys))
	for _, dateKey := range dateKeys {
		totals = append(totals, DayTotal{DateKey: dateKey, Total: dayTotal(l, chores, dateKey)})
	}
	return totals, nil
}

func dayTotal(l ledger.Ledger, chores []model.Chore, dateKey string) decimal.Decimal {
	total := decimal.Zero
	for _, c := range chores {
		count := l.Get(dateKey, c.ID)
		if count <= 0 {
			continue
		}
		total = total.Add(c.Value.Mul(decimal.NewFromInt(int64(count))))
	}
	return total
}

func validateValues(chores []model.Chore) error {
	for _, c := range chores {
		if c.Value.IsNegative() {
			return fmt.Errorf("%w: chore %q has negative value %s", model.ErrMalformedInput, c.ID, c.Value)
		}
	}
	return nil
}

// Package history groups ledger entries of a period for review and computes
// what each member is owed.
package history

import (
	"fmt"
	"sort"

	"github.com/dukerupert/paydaypal/internal/ledger"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/shopspring/decimal"
)

type Entry struct {
	MemberID   string          `json:"member_id"`
	MemberName string          `json:"member_name"`
	ChoreID    string          `json:"chore_id"`
	ChoreLabel string          `json:"chore_label,omitempty"`
	Count      int             `json:"count"`
	Value      decimal.Decimal `json:"value"`
	Amount     decimal.Decimal `json:"amount"`
}

type Group struct {
	DateKey string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// MemberTotal is the payday amount for one member over a period.
type MemberTotal struct {
	MemberID   string          `json:"member_id"`
	MemberName string          `json:"member_name"`
	Chores     int             `json:"chores"`
	Total      decimal.Decimal `json:"total"`
}

// Window returns the half-open [start, end) date range of p. The end is empty
// for an active period.
func Window(p model.Period) (start, end string) {
	if p.EndDate != nil {
		end = *p.EndDate
	}
	return p.StartDate, end
}

// GroupActivities collects every positive entry inside the period window from
// the members' ledgers, buckets them by day (newest first) and orders each
// bucket by member name, member id and chore id. Chores missing from the
// catalog are kept with a zero value.
func GroupActivities(members []model.Member, ledgers map[string]ledger.Ledger, chores []model.Chore, p model.Period) ([]Group, error) {
	entries, err := collect(members, ledgers, chores, p)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]Entry)
	for _, e := range entries {
		byDate[e.dateKey] = append(byDate[e.dateKey], e.Entry)
	}

	groups := make([]Group, 0, len(byDate))
	for dateKey, es := range byDate {
		sort.Slice(es, func(i, j int) bool {
			if es[i].MemberName != es[j].MemberName {
				return es[i].MemberName < es[j].MemberName
			}
			if es[i].MemberID != es[j].MemberID {
				return es[i].MemberID < es[j].MemberID
			}
			return es[i].ChoreID < es[j].ChoreID
		})
		groups = append(groups, Group{DateKey: dateKey, Entries: es})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].DateKey > groups[j].DateKey })
	return groups, nil
}

// Payday sums each member's included entries. Every member appears, in the
// order given, even with nothing earned.
func Payday(members []model.Member, ledgers map[string]ledger.Ledger, chores []model.Chore, p model.Period) ([]MemberTotal, error) {
	entries, err := collect(members, ledgers, chores, p)
	if err != nil {
		return nil, err
	}

	totals := make([]MemberTotal, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		totals[i] = MemberTotal{MemberID: m.ID, MemberName: m.Name, Total: decimal.Zero}
		index[m.ID] = i
	}
	for _, e := range entries {
		t := &totals[index[e.MemberID]]
		t.Chores += e.Count
		t.Total = t.Total.Add(e.Amount)
	}
	return totals, nil
}

// Sum adds up member totals.
func Sum(totals []MemberTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum
}

type datedEntry struct {
	Entry
	dateKey string
}

func collect(members []model.Member, ledgers map[string]ledger.Ledger, chores []model.Chore, p model.Period) ([]datedEntry, error) {
	values := make(map[string]decimal.Decimal, len(chores))
	for _, c := range chores {
		if c.Value.IsNegative() {
			return nil, fmt.Errorf("%w: chore %q has negative value %s", model.ErrMalformedInput, c.ID, c.Value)
		}
		values[c.ID] = c.Value
	}

	start, end := Window(p)
	var out []datedEntry
	for _, m := range members {
		for _, le := range ledgers[m.ID].Window(start, end) {
			value, ok := values[le.ChoreID]
			if !ok {
				value = decimal.Zero
			}
			out = append(out, datedEntry{
				dateKey: le.DateKey,
				Entry: Entry{
					MemberID:   m.ID,
					MemberName: m.Name,
					ChoreID:    le.ChoreID,
					Count:      le.Count,
					Value:      value,
					Amount:     value.Mul(decimal.NewFromInt(int64(le.Count))),
				},
			})
		}
	}
	return out, nil
}

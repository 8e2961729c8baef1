package archive

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/paydaypal/internal/history"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/money"
)

// Statement is the payday summary written when a period closes.
type Statement struct {
	HouseholdID   string          `json:"household_id"`
	HouseholdName string          `json:"household_name"`
	Currency      model.Currency  `json:"currency"`
	Language      model.Language  `json:"language"`
	PeriodID      string          `json:"period_id"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Members       []StatementLine `json:"members"`
	Total         string          `json:"total"`
	TotalDisplay  string          `json:"total_display"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

type StatementLine struct {
	MemberID   string          `json:"member_id"`
	MemberName string          `json:"member_name"`
	Chores     int             `json:"chores"`
	Amount     string          `json:"amount"`
	Display    string          `json:"display"`
	Items      []StatementItem `json:"items"`
}

// StatementItem is one chore's contribution to a member's payday.
type StatementItem struct {
	ChoreID string `json:"chore_id"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Amount  string `json:"amount"`
}

// NewStatement summarizes a closed period. groups supplies the per-chore
// items of each member, labelled as grouped.
func NewStatement(h *model.Household, p model.Period, totals []history.MemberTotal, groups []history.Group, generatedAt time.Time) Statement {
	st := Statement{
		HouseholdID:   h.ID,
		HouseholdName: h.Name,
		Currency:      h.Currency,
		Language:      h.Language,
		PeriodID:      p.ID,
		StartDate:     p.StartDate,
		Members:       make([]StatementLine, 0, len(totals)),
		GeneratedAt:   generatedAt.UTC(),
	}
	if p.EndDate != nil {
		st.EndDate = *p.EndDate
	}
	items := statementItems(groups)
	for _, t := range totals {
		line := StatementLine{
			MemberID:   t.MemberID,
			MemberName: t.MemberName,
			Chores:     t.Chores,
			Amount:     money.Format(t.Total),
			Display:    money.Localized(t.Total, h.Language, h.Currency),
			Items:      items[t.MemberID],
		}
		if line.Items == nil {
			line.Items = []StatementItem{}
		}
		st.Members = append(st.Members, line)
	}
	sum := history.Sum(totals)
	st.Total = money.Format(sum)
	st.TotalDisplay = money.Localized(sum, h.Language, h.Currency)
	return st
}

// statementItems sums grouped entries per member and chore, ordered by label.
func statementItems(groups []history.Group) map[string][]StatementItem {
	type acc struct {
		label  string
		count  int
		amount decimal.Decimal
	}
	byMember := make(map[string]map[string]*acc)
	for _, g := range groups {
		for _, e := range g.Entries {
			chores := byMember[e.MemberID]
			if chores == nil {
				chores = make(map[string]*acc)
				byMember[e.MemberID] = chores
			}
			a := chores[e.ChoreID]
			if a == nil {
				label := e.ChoreLabel
				if label == "" {
					label = e.ChoreID
				}
				a = &acc{label: label, amount: decimal.Zero}
				chores[e.ChoreID] = a
			}
			a.count += e.Count
			a.amount = a.amount.Add(e.Amount)
		}
	}

	out := make(map[string][]StatementItem, len(byMember))
	for memberID, chores := range byMember {
		items := make([]StatementItem, 0, len(chores))
		for choreID, a := range chores {
			items = append(items, StatementItem{ChoreID: choreID, Label: a.label, Count: a.count, Amount: money.Format(a.amount)})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].Label != items[j].Label {
				return items[i].Label < items[j].Label
			}
			return items[i].ChoreID < items[j].ChoreID
		})
		out[memberID] = items
	}
	return out
}

func (s Statement) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode statement: %w", err)
	}
	return data, nil
}

// ObjectKey names the stored statement, e.g.
// "<household>/2024-03-01_2024-03-15_<period>.json.enc".
func (s Statement) ObjectKey(sealed bool) string {
	key := fmt.Sprintf("%s/%s_%s_%s.json", s.HouseholdID, s.StartDate, s.EndDate, s.PeriodID)
	if sealed {
		key += ".enc"
	}
	return key
}

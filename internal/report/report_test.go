package report

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/paydaypal/internal/database"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/store"
)

type fixture struct {
	households *store.HouseholdStore
	ledgers    *store.LedgerStore
	periods    *store.PeriodStore
	builder    *Builder
	household  *model.Household
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		households: store.NewHouseholdStore(db),
		ledgers:    store.NewLedgerStore(db),
		periods:    store.NewPeriodStore(db),
	}
	f.builder = NewBuilder(f.households, f.ledgers, f.periods)
	f.household, err = f.households.Create(store.HouseholdParams{Name: "Home", MemberNames: []string{"Bob", "Alice"}}, "2024-03-01")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	return f
}

func (f *fixture) set(t *testing.T, member, date, chore string, count int) {
	t.Helper()
	if err := f.ledgers.Set(f.household.ID, member, date, chore, count); err != nil {
		t.Fatalf("set %s %s %s: %v", member, date, chore, err)
	}
}

func TestBuildLatestClosed(t *testing.T) {
	f := setup(t)

	// dishes 0.75, make-bed 0.50 in the default catalog
	f.set(t, "alice", "2024-02-28", "dishes", 5)
	f.set(t, "alice", "2024-03-02", "dishes", 2)
	f.set(t, "bob", "2024-03-03", "make-bed", 1)
	f.set(t, "alice", "2024-03-05", "dishes", 1)

	current, _ := f.periods.Latest(f.household.ID)
	if _, err := f.periods.CloseAndOpen(current.ID, "2024-03-05", "2024-03-05"); err != nil {
		t.Fatalf("close and open: %v", err)
	}

	r, err := f.builder.Build(f.household.ID, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Period.ID != current.ID {
		t.Errorf("period = %s, want %s", r.Period.ID, current.ID)
	}
	if len(r.Groups) != 2 || r.Groups[0].DateKey != "2024-03-03" || r.Groups[1].DateKey != "2024-03-02" {
		t.Errorf("groups = %+v", r.Groups)
	}
	if len(r.Payday) != 2 || r.Payday[0].MemberID != "bob" {
		t.Fatalf("payday = %+v", r.Payday)
	}
	if !r.Payday[0].Total.Equal(decimal.RequireFromString("0.50")) {
		t.Errorf("bob total = %s, want 0.50", r.Payday[0].Total)
	}
	if !r.Payday[1].Total.Equal(decimal.RequireFromString("1.50")) {
		t.Errorf("alice total = %s, want 1.50", r.Payday[1].Total)
	}
	if !r.Total.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("total = %s, want 2.00", r.Total)
	}
}

func TestBuildActivePeriodByID(t *testing.T) {
	f := setup(t)
	f.set(t, "alice", "2024-04-10", "dishes", 4)

	current, _ := f.periods.Latest(f.household.ID)
	r, err := f.builder.Build(f.household.ID, current.ID)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !r.Total.Equal(decimal.RequireFromString("3")) {
		t.Errorf("total = %s, want 3", r.Total)
	}
}

func TestBuildNotFound(t *testing.T) {
	f := setup(t)

	if _, err := f.builder.Build("missing", ""); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing household err = %v, want ErrNotFound", err)
	}
	if _, err := f.builder.Build(f.household.ID, ""); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("no closed period err = %v, want ErrNotFound", err)
	}
	if _, err := f.builder.Build(f.household.ID, "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing period err = %v, want ErrNotFound", err)
	}
}

func TestLoadLedgers(t *testing.T) {
	f := setup(t)
	f.set(t, "alice", "2024-03-02", "dishes", 2)

	ledgers, err := LoadLedgers(f.ledgers, f.household.ID, f.household.Members)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ledgers) != 2 {
		t.Fatalf("ledgers = %d, want 2", len(ledgers))
	}
	if got := ledgers["alice"].Get("2024-03-02", "dishes"); got != 2 {
		t.Errorf("alice dishes = %d, want 2", got)
	}
	if len(ledgers["bob"]) != 0 {
		t.Errorf("bob ledger = %v, want empty", ledgers["bob"])
	}
}

func TestForPeriodLabelsChoresInHouseholdLanguage(t *testing.T) {
	f := setup(t)
	h, err := f.households.Create(store.HouseholdParams{
		Name:        "Zuhause",
		MemberNames: []string{"Anna"},
		Language:    model.LanguageDE,
	}, "2024-03-01")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	if err := f.ledgers.Set(h.ID, "anna", "2024-03-02", "dishes", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := f.ledgers.Set(h.ID, "anna", "2024-03-02", "retired-chore", 2); err != nil {
		t.Fatalf("set: %v", err)
	}

	p, err := f.periods.Latest(h.ID)
	if err != nil || p == nil {
		t.Fatalf("latest period: %v", err)
	}
	r, err := f.builder.ForPeriod(h, *p)
	if err != nil {
		t.Fatalf("for period: %v", err)
	}
	if len(r.Groups) != 1 || len(r.Groups[0].Entries) != 2 {
		t.Fatalf("groups = %+v", r.Groups)
	}

	labels := map[string]string{}
	for _, e := range r.Groups[0].Entries {
		labels[e.ChoreID] = e.ChoreLabel
	}
	if labels["dishes"] != "Abwaschen" {
		t.Errorf("dishes label = %q, want %q", labels["dishes"], "Abwaschen")
	}
	if labels["retired-chore"] != "retired-chore" {
		t.Errorf("unknown chore label = %q, want its id", labels["retired-chore"])
	}
}

package earnings

import (
	"errors"
	"testing"

	"github.com/dukerupert/paydaypal/internal/ledger"
	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/money"
	"github.com/shopspring/decimal"
)

func chore(id, value string) model.Chore {
	return model.Chore{ID: id, Value: decimal.RequireFromString(value)}
}

func TestTotalForDateScenario(t *testing.T) {
	l := ledger.Ledger{"2024-01-01_make-bed": 2}
	chores := []model.Chore{chore("make-bed", "0.5")}

	got, err := TotalForDate(l, chores, "2024-01-01")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if money.Format(got) != "1.00" {
		t.Errorf("total = %s, want 1.00", money.Format(got))
	}
}

func TestTotalForDatesEmptyIsZero(t *testing.T) {
	l := ledger.Ledger{"2024-01-01_make-bed": 2}
	got, err := TotalForDates(l, []model.Chore{chore("make-bed", "0.5")}, nil)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("total = %s, want 0", got)
	}
}

func TestTotalForDatesAdditive(t *testing.T) {
	l := ledger.Ledger{
		"2024-01-01_make-bed": 2,
		"2024-01-01_dishes":   1,
		"2024-01-02_dishes":   3,
		"2024-01-03_mow-lawn": 1,
		"2024-01-04_unknown":  5,
	}
	chores := []model.Chore{chore("make-bed", "0.5"), chore("dishes", "0.333"), chore("mow-lawn", "3")}

	a := []string{"2024-01-01", "2024-01-03"}
	b := []string{"2024-01-02", "2024-01-04"}

	ta, err := TotalForDates(l, chores, a)
	if err != nil {
		t.Fatal(err)
	}
	tb, err := TotalForDates(l, chores, b)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := TotalForDates(l, chores, append(append([]string{}, a...), b...))
	if err != nil {
		t.Fatal(err)
	}
	if !tab.Equal(ta.Add(tb)) {
		t.Errorf("total(A∪B) = %s, want %s + %s", tab, ta, tb)
	}
	if !tab.Equal(decimal.RequireFromString("5.332")) {
		t.Errorf("total = %s, want 5.332", tab)
	}
}

func TestTotalsDoNotRoundIntermediateProducts(t *testing.T) {
	chores := []model.Chore{chore("a", "0.335"), chore("b", "0.335"), chore("c", "0.335")}
	l := ledger.Ledger{"2024-01-01_a": 1, "2024-01-01_b": 1, "2024-01-01_c": 1}

	got, err := TotalForDate(l, chores, "2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if money.Format(got) != "1.01" {
		t.Errorf("total = %s, want 1.01", money.Format(got))
	}
}

func TestNegativeValueRejected(t *testing.T) {
	l := ledger.Ledger{"2024-01-01_a": 1}
	_, err := TotalForDates(l, []model.Chore{chore("a", "-1")}, []string{"2024-01-01"})
	if !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("error = %v, want ErrMalformedInput", err)
	}
	if _, err := DailyTotals(l, []model.Chore{chore("a", "-1")}, []string{"2024-01-01"}); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("DailyTotals error = %v, want ErrMalformedInput", err)
	}
}

func TestDailyTotalsKeepsOrder(t *testing.T) {
	l := ledger.Ledger{"2024-01-02_a": 2, "2024-01-01_a": 1}
	days := []string{"2024-01-03", "2024-01-02", "2024-01-01"}

	got, err := DailyTotals(l, []model.Chore{chore("a", "1.25")}, days)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0.00", "2.50", "1.25"}
	for i, d := range got {
		if d.DateKey != days[i] {
			t.Errorf("got[%d].DateKey = %q, want %q", i, d.DateKey, days[i])
		}
		if money.Format(d.Total) != want[i] {
			t.Errorf("got[%d].Total = %s, want %s", i, money.Format(d.Total), want[i])
		}
	}
}

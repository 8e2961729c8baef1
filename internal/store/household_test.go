package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/paydaypal/internal/catalog"
	"github.com/dukerupert/paydaypal/internal/model"
)

func TestHouseholdCreateSeeds(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)

	h, err := hs.Create(HouseholdParams{
		Name:        "  The Smiths ",
		MemberNames: []string{"Alice", "Mary Jane"},
		Language:    model.LanguageDE,
	}, "2024-03-01")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if h.Name != "The Smiths" {
		t.Errorf("name = %q, want %q", h.Name, "The Smiths")
	}
	if h.Currency != model.CurrencyEUR {
		t.Errorf("currency = %q, want %q", h.Currency, model.CurrencyEUR)
	}
	if h.Language != model.LanguageDE {
		t.Errorf("language = %q, want %q", h.Language, model.LanguageDE)
	}
	if len(h.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(h.Members))
	}
	if h.Members[0].ID != "alice" || h.Members[1].ID != "mary-jane" {
		t.Errorf("member ids = %q, %q", h.Members[0].ID, h.Members[1].ID)
	}
	if h.Members[1].Name != "Mary Jane" {
		t.Errorf("member name = %q, want %q", h.Members[1].Name, "Mary Jane")
	}

	defaults := catalog.Defaults()
	if len(h.Chores) != len(defaults) {
		t.Fatalf("chores = %d, want %d", len(h.Chores), len(defaults))
	}
	for i, c := range h.Chores {
		if c.ID != defaults[i].ID {
			t.Errorf("chore[%d] = %q, want %q", i, c.ID, defaults[i].ID)
		}
		if !c.Value.Equal(defaults[i].Value) {
			t.Errorf("chore %s value = %s, want %s", c.ID, c.Value, defaults[i].Value)
		}
		if c.Labels[model.LanguageEN] == "" {
			t.Errorf("chore %s has no english label", c.ID)
		}
	}

	p, err := NewPeriodStore(db).Latest(h.ID)
	if err != nil {
		t.Fatalf("latest period: %v", err)
	}
	if p == nil || !p.Active() || p.StartDate != "2024-03-01" {
		t.Errorf("initial period = %+v, want active from 2024-03-01", p)
	}
}

func TestHouseholdCreateRejectsDuplicateMembers(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))

	_, err := hs.Create(HouseholdParams{Name: "Home", MemberNames: []string{"Alice", " alice "}}, "2024-03-01")
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestHouseholdCreateValidates(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))
	alice := []string{"Alice"}

	tests := []struct {
		name   string
		params HouseholdParams
		start  string
	}{
		{"empty name", HouseholdParams{Name: "  ", MemberNames: alice}, "2024-03-01"},
		{"bad currency", HouseholdParams{Name: "Home", MemberNames: alice, Currency: "GBP"}, "2024-03-01"},
		{"bad language", HouseholdParams{Name: "Home", MemberNames: alice, Language: "es"}, "2024-03-01"},
		{"no members", HouseholdParams{Name: "Home"}, "2024-03-01"},
		{"empty member list", HouseholdParams{Name: "Home", MemberNames: []string{}}, "2024-03-01"},
		{"blank member", HouseholdParams{Name: "Home", MemberNames: []string{" "}}, "2024-03-01"},
		{"bad start", HouseholdParams{Name: "Home", MemberNames: alice}, "2024-3-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hs.Create(tt.params, tt.start)
			if !errors.Is(err, model.ErrMalformedInput) {
				t.Errorf("err = %v, want ErrMalformedInput", err)
			}
		})
	}

	list, err := hs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("households = %d, want 0 after failed creates", len(list))
	}
}

func TestHouseholdGetMissing(t *testing.T) {
	hs := NewHouseholdStore(setupTestDB(t))

	h, err := hs.GetByID("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if h != nil {
		t.Errorf("household = %+v, want nil", h)
	}
}

func TestHouseholdListAndRename(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)
	h := createTestHousehold(t, db, "Alice")
	if _, err := hs.Create(HouseholdParams{Name: "Another", MemberNames: []string{"Bob"}}, "2024-03-01"); err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed, err := hs.Rename(h.ID, "Zeta House")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Zeta House" {
		t.Errorf("name = %q, want %q", renamed.Name, "Zeta House")
	}

	list, err := hs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Another" || list[1].Name != "Zeta House" {
		t.Errorf("list = %+v", list)
	}

	if _, err := hs.Rename(h.ID, " "); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("blank rename err = %v, want ErrMalformedInput", err)
	}
}

func TestAddMember(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)
	h := createTestHousehold(t, db, "Alice")

	m, err := hs.AddMember(h.ID, "  Bob  Builder ")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if m.ID != "bob-builder" || m.Name != "Bob  Builder" {
		t.Errorf("member = %+v", m)
	}
	if m.SortOrder != 1 {
		t.Errorf("sort order = %d, want 1", m.SortOrder)
	}

	if _, err := hs.AddMember(h.ID, "BOB builder"); !errors.Is(err, model.ErrConflict) {
		t.Errorf("duplicate err = %v, want ErrConflict", err)
	}
	if _, err := hs.AddMember(h.ID, "\t"); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("blank err = %v, want ErrMalformedInput", err)
	}
}

func TestToggleMember(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHouseholdStore(db)
	h := createTestHousehold(t, db, "Alice", "Bob")

	m, err := hs.ToggleMember(h.ID, "alice")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !m.Disabled {
		t.Error("alice should be disabled")
	}

	_, err = hs.ToggleMember(h.ID, "bob")
	if !errors.Is(err, model.ErrInvalidState) {
		t.Errorf("disable last active err = %v, want ErrInvalidState", err)
	}
	bob, err := hs.GetMember(h.ID, "bob")
	if err != nil {
		t.Fatalf("get bob: %v", err)
	}
	if bob.Disabled {
		t.Error("bob should still be enabled")
	}

	m, err = hs.ToggleMember(h.ID, "alice")
	if err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	if m.Disabled {
		t.Error("alice should be enabled again")
	}

	if _, err := hs.ToggleMember(h.ID, "carol"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing member err = %v, want ErrNotFound", err)
	}
}

package store

import "testing"

func TestPreferences(t *testing.T) {
	ps := NewPreferenceStore(setupTestDB(t))

	if _, ok, err := ps.Get("tablet", "theme"); err != nil || ok {
		t.Fatalf("get missing = ok %v err %v", ok, err)
	}

	if _, err := ps.Set("tablet", "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := ps.Set("tablet", "theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := ps.Set("tablet", "active_member:h1", "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := ps.Set("phone", "theme", "dark"); err != nil {
		t.Fatalf("set other device: %v", err)
	}

	v, ok, err := ps.Get("tablet", "theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("theme = %q ok %v err %v, want light", v, ok, err)
	}

	all, err := ps.GetAll("tablet")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 2 || all["active_member:h1"] != "alice" {
		t.Errorf("prefs = %v", all)
	}

	if err := ps.Delete("tablet", "theme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := ps.Get("tablet", "theme"); ok {
		t.Error("theme should be gone")
	}
}

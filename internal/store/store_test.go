package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/paydaypal/internal/database"
	"github.com/dukerupert/paydaypal/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestHousehold(t *testing.T, db *sql.DB, members ...string) *model.Household {
	t.Helper()
	h, err := NewHouseholdStore(db).Create(HouseholdParams{Name: "Test Home", MemberNames: members}, "2024-03-01")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	return h
}

package datekey

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/paydaypal/internal/model"
)

func TestFromTimeUsesLocalFields(t *testing.T) {
	berlin := time.FixedZone("CET", 1*60*60)
	// 23:30 UTC on Jan 1 is already Jan 2 in Berlin.
	instant := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)

	if got := FromTime(instant); got != "2024-01-01" {
		t.Errorf("FromTime(utc) = %q, want %q", got, "2024-01-01")
	}
	if got := FromTime(instant.In(berlin)); got != "2024-01-02" {
		t.Errorf("FromTime(berlin) = %q, want %q", got, "2024-01-02")
	}
}

func TestFromTimeSortsChronologically(t *testing.T) {
	a := FromTime(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	b := FromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := FromTime(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))
	if !(a < b && b < c) {
		t.Errorf("keys not ordered: %q %q %q", a, b, c)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, key := range []string{"", "2024-1-01", "2024-02-30", "01/02/2024", "2024-01-01T00:00", "garbage"} {
		if _, err := Parse(key, time.UTC); !errors.Is(err, model.ErrMalformedInput) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedInput", key, err)
		}
	}
}

func TestParseLocalMidnight(t *testing.T) {
	loc := time.FixedZone("X", -5*60*60)
	got, err := Parse("2024-03-10", loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestRangeSingleDay(t *testing.T) {
	got, err := Range("2024-03-10", "2024-03-10")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 1 || got[0] != "2024-03-10" {
		t.Errorf("Range = %v, want [2024-03-10]", got)
	}
}

func TestRangeNewestFirst(t *testing.T) {
	got, err := Range("2024-02-27", "2024-03-02")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	want := []string{"2024-03-02", "2024-03-01", "2024-02-29", "2024-02-28", "2024-02-27"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRangeLength(t *testing.T) {
	cases := []struct {
		start, today string
		days         int
	}{
		{"2024-01-01", "2024-01-31", 31},
		{"2024-01-01", "2024-12-31", 366},
		{"2023-03-20", "2023-04-02", 14}, // spans a DST change in most zones
		{"2023-12-30", "2024-01-02", 4},
	}
	for _, tc := range cases {
		got, err := Range(tc.start, tc.today)
		if err != nil {
			t.Fatalf("Range(%s, %s): %v", tc.start, tc.today, err)
		}
		if len(got) != tc.days {
			t.Errorf("Range(%s, %s) len = %d, want %d", tc.start, tc.today, len(got), tc.days)
		}
		if got[0] != tc.today {
			t.Errorf("Range(%s, %s) first = %q, want today", tc.start, tc.today, got[0])
		}
		if got[len(got)-1] != tc.start {
			t.Errorf("Range(%s, %s) last = %q, want start", tc.start, tc.today, got[len(got)-1])
		}
	}
}

func TestRangeStartAfterToday(t *testing.T) {
	got, err := Range("2024-05-10", "2024-05-01")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 1 || got[0] != "2024-05-01" {
		t.Errorf("Range = %v, want [2024-05-01]", got)
	}
}

func TestRangeMalformed(t *testing.T) {
	if _, err := Range("not-a-date", "2024-05-01"); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("error = %v, want ErrMalformedInput", err)
	}
	if _, err := Range("2024-05-01", "2024/05/02"); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("error = %v, want ErrMalformedInput", err)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-02-28", 2)
	if err != nil {
		t.Fatalf("add days: %v", err)
	}
	if got != "2024-03-01" {
		t.Errorf("AddDays = %q, want %q", got, "2024-03-01")
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("NZ", 13*60*60)
	c := FixedClock{T: time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC).In(loc)}
	if got := Today(c); got != "2024-07-01" {
		t.Errorf("Today = %q, want %q", got, "2024-07-01")
	}
}

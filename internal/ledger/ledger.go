// Package ledger holds a member's sparse chore counts keyed by
// "<dateKey>_<choreId>".
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/model"
)

// MaxCount caps a single entry. Larger deltas or counts are malformed, and
// increments saturate here.
const MaxCount = 1000

// Ledger maps composite keys to non-negative counts. Missing keys and zero
// counts mean the same thing.
type Ledger map[string]int

type Entry struct {
	DateKey string `json:"date"`
	ChoreID string `json:"chore_id"`
	Count   int    `json:"count"`
}

// Key builds the composite key for a chore on a day.
func Key(dateKey, choreID string) string {
	return dateKey + "_" + choreID
}

// SplitKey reverses Key. Date keys have a fixed width, so chore ids may
// themselves contain underscores.
func SplitKey(key string) (dateKey, choreID string, ok bool) {
	n := len(datekey.Layout)
	if len(key) < n+2 || key[n] != '_' {
		return "", "", false
	}
	dateKey, choreID = key[:n], key[n+1:]
	if datekey.Validate(dateKey) != nil {
		return "", "", false
	}
	return dateKey, choreID, true
}

// Get returns the count for a chore on a day, 0 if absent.
func (l Ledger) Get(dateKey, choreID string) int {
	return l[Key(dateKey, choreID)]
}

// Increment returns a copy of l with the count moved by delta, kept within
// [0, MaxCount]. l itself is left untouched. It is the in-memory model of
// store.LedgerStore.Increment, which applies the same rule in SQL.
func (l Ledger) Increment(dateKey, choreID string, delta int) (Ledger, error) {
	if err := datekey.Validate(dateKey); err != nil {
		return nil, err
	}
	if strings.TrimSpace(choreID) == "" {
		return nil, fmt.Errorf("%w: empty chore id", model.ErrMalformedInput)
	}
	if err := ValidateDelta(delta); err != nil {
		return nil, err
	}

	next := make(Ledger, len(l)+1)
	for k, v := range l {
		next[k] = v
	}
	key := Key(dateKey, choreID)
	count := min(MaxCount, max(0, next[key]+delta))
	if count == 0 {
		delete(next, key)
	} else {
		next[key] = count
	}
	return next, nil
}

// ValidateDelta rejects increments larger than a whole entry.
func ValidateDelta(delta int) error {
	if delta > MaxCount || delta < -MaxCount {
		return fmt.Errorf("%w: delta %d exceeds %d", model.ErrMalformedInput, delta, MaxCount)
	}
	return nil
}

// ValidateCount rejects counts outside [0, MaxCount].
func ValidateCount(count int) error {
	if count < 0 || count > MaxCount {
		return fmt.Errorf("%w: count %d outside [0, %d]", model.ErrMalformedInput, count, MaxCount)
	}
	return nil
}

// Entries returns the positive, well-formed entries ordered by date then chore.
func (l Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(l))
	for k, count := range l {
		if count <= 0 {
			continue
		}
		dateKey, choreID, ok := SplitKey(k)
		if !ok {
			continue
		}
		entries = append(entries, Entry{DateKey: dateKey, ChoreID: choreID, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DateKey != entries[j].DateKey {
			return entries[i].DateKey < entries[j].DateKey
		}
		return entries[i].ChoreID < entries[j].ChoreID
	})
	return entries
}

// Window returns the entries with start <= date < end. An empty end means
// no upper bound.
func (l Ledger) Window(start, end string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.DateKey < start {
			continue
		}
		if end != "" && e.DateKey >= end {
			continue
		}
		out = append(out, e)
	}
	return out
}

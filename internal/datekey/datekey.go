// Package datekey canonicalizes calendar days to YYYY-MM-DD keys and
// enumerates the days of a chore period.
package datekey

import (
	"fmt"
	"time"

	"github.com/dukerupert/paydaypal/internal/model"
)

// Layout is the key format. Keys sort lexicographically in chronological order.
const Layout = "2006-01-02"

// FromTime returns the key for t's calendar day in t's own location.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}

// Parse returns local midnight of the key's day in loc.
func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, key, loc)
	if err != nil || t.Format(Layout) != key {
		return time.Time{}, fmt.Errorf("%w: date key %q", model.ErrMalformedInput, key)
	}
	return t, nil
}

// Validate reports whether key is a well-formed date key.
func Validate(key string) error {
	_, err := Parse(key, time.UTC)
	return err
}

// Range returns every day from start through today inclusive, newest first.
// If start is after today the result is just today; it is never empty.
func Range(start, today string) ([]string, error) {
	// Calendar arithmetic in UTC so DST transitions never skip or repeat a day.
	from, err := Parse(start, time.UTC)
	if err != nil {
		return nil, err
	}
	to, err := Parse(today, time.UTC)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return []string{today}, nil
	}

	days := int(to.Sub(from).Hours()/24) + 1
	keys := make([]string, 0, days)
	for d := to; !d.Before(from); d = d.AddDate(0, 0, -1) {
		keys = append(keys, FromTime(d))
	}
	return keys, nil
}

// AddDays shifts a key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key, time.UTC)
	if err != nil {
		return "", err
	}
	return FromTime(t.AddDate(0, 0, n)), nil
}

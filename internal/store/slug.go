package store

import "strings"

// Slug derives a member id from a display name: trimmed, lower-cased, with
// every whitespace run replaced by a single dash.
func Slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

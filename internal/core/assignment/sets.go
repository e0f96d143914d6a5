package assignment

import "strings"

// Unlinked returns the members of all whose id is not in linked, keeping order.
func Unlinked[T any](all []T, id func(T) string, linked map[string]bool) []T {
	out := make([]T, 0, len(all))
	for _, item := range all {
		if !linked[id(item)] {
			out = append(out, item)
		}
	}
	return out
}

// IDSet builds a membership set from ids.
func IDSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// DedupeIDs trims ids, drops blanks and repeats, and keeps first-seen order.
func DedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

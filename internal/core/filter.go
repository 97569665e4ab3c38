package core

import "strings"

// FilterAll matches every record type.
const FilterAll = "all"

// Filter returns the records matching both the type filter and the search
// query, preserving input order. The query matches case-insensitively
// against name, note and type; an empty query matches everything.
func Filter(records []Record, typeFilter, query string) []Record {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if typeFilter != FilterAll && r.Type != typeFilter {
			continue
		}
		if query != "" && !matchesQuery(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r Record, query string) bool {
	return strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Note), query) ||
		strings.Contains(strings.ToLower(r.Type), query)
}

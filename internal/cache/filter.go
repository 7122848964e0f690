package cache

import (
	"strings"

	"github.com/ehmtravel/backoffice/internal/entity"
)

// Filter keeps records whose searchable fields contain the query,
// case-insensitively, preserving relative order. An empty query matches
// everything.
func Filter(schema entity.Schema, records []entity.Record, query string) []entity.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}

	fields := schema.SearchableFields()
	out := make([]entity.Record, 0, len(records))
	for _, rec := range records {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(rec.String(field)), query) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

package dataset

import (
	"strings"

	"stock-board/src/models"
)

// DefaultSearchLimit caps search results when a request omits limit.
const DefaultSearchLimit = 50

// Search matches query case-insensitively against the distinct (code, name)
// set. Matches are grouped by precedence: exact code, code prefix, name
// prefix, code substring, name substring. Each instrument lands in its first
// matching group only.
func (d *Dataset) Search(query string, limit int) []models.MSearchResult {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" || limit <= 0 || len(d.instruments) == 0 {
		return []models.MSearchResult{}
	}

	const groups = 5
	var buckets [groups][]models.MSearchResult

	for _, inst := range d.instruments {
		code := strings.ToUpper(inst.Code)
		name := strings.ToUpper(inst.Name)

		switch {
		case code == q:
			buckets[0] = append(buckets[0], inst)
		case strings.HasPrefix(code, q):
			buckets[1] = append(buckets[1], inst)
		case strings.HasPrefix(name, q):
			buckets[2] = append(buckets[2], inst)
		case strings.Contains(code, q):
			buckets[3] = append(buckets[3], inst)
		case strings.Contains(name, q):
			buckets[4] = append(buckets[4], inst)
		}
	}

	out := make([]models.MSearchResult, 0, min(limit, len(d.instruments)))
	for _, bucket := range buckets {
		for _, inst := range bucket {
			if len(out) == limit {
				return out
			}
			out = append(out, inst)
		}
	}
	return out
}

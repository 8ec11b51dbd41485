// Package pagination parses page/limit query values for list endpoints.
package pagination

import "strconv"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Parse turns raw page and limit query values into usable values.
// Malformed or non-positive input falls back to defaults, so a query
// like ?limit=0 or ?page=-3 can never produce a zero page size or a
// negative skip.
func Parse(pageStr, limitStr string) (page, limit int64) {
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// TotalPages reports how many pages of size limit cover total items.
func TotalPages(total, limit int64) int64 {
	return (total + limit - 1) / limit
}

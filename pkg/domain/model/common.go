package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing Z or offset is
// honoured; timestamps without a zone are taken as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, goerr.New("invalid timestamp", goerr.V("value", value))
}

// Page is one slice of a paginated listing
type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NormalizePage clamps page and limit to their accepted ranges
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Paginate returns the requested page of items
func Paginate[T any](items []T, page, limit int) Page[T] {
	page, limit = NormalizePage(page, limit)
	total := len(items)

	// Compare in pages first; (page-1)*limit overflows for huge pages
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := start + limit
	if end > total {
		end = total
	}

	result := make([]T, end-start)
	copy(result, items[start:end])

	return Page[T]{
		Items:      result,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

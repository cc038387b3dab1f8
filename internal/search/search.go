// Package search implements the case-insensitive substring matching used by
// every back-office list view. A single generic filter serves orders,
// affiliates, discounts, products, and staff alike; each caller supplies
// extractors for the fields its view searches over.
package search

import (
	"fmt"
	"strings"
)

// Extractor produces one searchable string from an item.
type Extractor[T any] func(item T) string

// Filter returns the items for which at least one extracted field contains the
// term, compared case-insensitively. An empty or whitespace-only term matches
// everything, so callers can pass the raw query box value straight through.
func Filter[T any](items []T, term string, extractors ...Extractor[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, extract := range extractors {
			if strings.Contains(strings.ToLower(extract(item)), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// FormatAmount renders a minor-unit amount as a decimal string with two
// fractional digits, e.g. 4900 -> "49.00". Searching over amounts works on this
// rendering, which is also what list views display.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

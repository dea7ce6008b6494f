// Package strings provides string-slice normalization for the name lists
// typed into decrees and records (witnesses, godparents, sponsors).
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved. Case is
// preserved too: "José" and "jose" are different people until a chancery
// clerk says otherwise.
//
// Example:
//
//	DedupeAndTrim([]string{"  María ", "Pedro", "María", "", "  "})
//	// Returns: []string{"María", "Pedro"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

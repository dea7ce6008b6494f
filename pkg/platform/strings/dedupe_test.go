package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single witness",
			input:    []string{"María Solano"},
			expected: []string{"María Solano"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  María Solano  ", "Pedro Mora  ", "  Ana Brenes"},
			expected: []string{"María Solano", "Pedro Mora", "Ana Brenes"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"María", "Pedro", "María", "Ana", "Pedro"},
			expected: []string{"María", "Pedro", "Ana"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"María", "", "  ", "Pedro"},
			expected: []string{"María", "Pedro"},
		},
		{
			name:     "combined: trim, dedupe, remove empty",
			input:    []string{"  María ", "Pedro", "María", "", "  ", "Pedro"},
			expected: []string{"María", "Pedro"},
		},
		{
			name:     "preserves case",
			input:    []string{"José", "josé", "JOSÉ"},
			expected: []string{"José", "josé", "JOSÉ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

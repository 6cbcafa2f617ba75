// Package utils contains general helper functions shared by the printdir packages.
package utils

import (
	"strings"
)

// DeduplicatePatterns removes duplicate and blank patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == EmptyString {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// SplitCommaSeparated splits each value on commas and returns the trimmed, deduplicated names.
// Both "--ignore a,b" and repeated "--ignore a --ignore b" reduce to the same list.
func SplitCommaSeparated(values []string) []string {
	var names []string
	for _, value := range values {
		names = append(names, strings.Split(value, ",")...)
	}
	return DeduplicatePatterns(names)
}

// Package naming splits snake_case identifiers into words and recognizes
// reserved (dunder) names.
package naming

import "strings"

const (
	// Separator joins words in a snake_case identifier.
	Separator = "_"

	// reservedMarker wraps language-internal names such as __init__.
	reservedMarker = "__"
)

// Split breaks a snake_case identifier into its words.
// Leading, trailing and repeated separators never produce empty words.
func Split(identifier string) []string {
	parts := strings.Split(identifier, Separator)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// IsReserved reports whether name follows the dunder convention,
// i.e. starts and ends with "__" without the two markers overlapping.
func IsReserved(name string) bool {
	if len(name) < 2*len(reservedMarker) {
		return false
	}
	return strings.HasPrefix(name, reservedMarker) && strings.HasSuffix(name, reservedMarker)
}

// FilterReserved returns names without the reserved ones, keeping order.
func FilterReserved(names []string) []string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if !IsReserved(n) {
			kept = append(kept, n)
		}
	}
	return kept
}

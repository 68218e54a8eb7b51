package normalization

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	name         string
	validValues  map[string]T
	defaultValue T
	validKeys    []string // Cached for error messages
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are matched case-insensitively and with surrounding whitespace ignored.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		normalizedKey := Key(k)
		normalized[normalizedKey] = v
		validKeys = append(validKeys, normalizedKey)
	}

	sort.Strings(validKeys)

	return &Normalizer[T]{
		name:         name,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw to the enum type, returning the default for unknown input.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[Key(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError converts raw to the enum type or reports the valid options.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, exists := n.validValues[Key(raw)]; exists {
		return value, nil
	}

	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", n.name, raw, n.validKeys)
}

// Default returns the value used for unrecognized input.
func (n *Normalizer[T]) Default() T {
	return n.defaultValue
}

// ValidKeys returns all valid normalized keys.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

// Fold folds the case of s for comparison. Whitespace is significant.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Key folds s for case-insensitive comparison, ignoring surrounding whitespace.
func Key(s string) string {
	return Fold(strings.TrimSpace(s))
}

var (
	truthy = map[string]struct{}{"true": {}, "yes": {}, "t": {}, "y": {}, "1": {}}
	falsy  = map[string]struct{}{"false": {}, "no": {}, "f": {}, "n": {}, "0": {}}
)

// ParseBool interprets the truthy set {true, yes, t, y, 1} and the falsy set
// {false, no, f, n, 0}, case-insensitively. Anything else is an error.
func ParseBool(raw string) (bool, error) {
	cleaned := Key(raw)
	if _, ok := truthy[cleaned]; ok {
		return true, nil
	}
	if _, ok := falsy[cleaned]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

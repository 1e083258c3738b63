// Package normalization maps user-supplied strings onto a fixed set of enum
// values, ignoring case and surrounding whitespace.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// EnumNormalizer converts raw strings to values of T.
type EnumNormalizer[T comparable] struct {
	enumName    string
	validValues map[string]T
	validKeys   []string // sorted, for error messages and help
}

// NewEnumNormalizer creates a normalizer for the named enum. Keys of values
// are normalized before use.
func NewEnumNormalizer[T comparable](enumName string, values map[string]T) *EnumNormalizer[T] {
	normalized := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		nk := normalize(k)
		normalized[nk] = v
		keys = append(keys, nk)
	}
	sort.Strings(keys)

	return &EnumNormalizer[T]{
		enumName:    enumName,
		validValues: normalized,
		validKeys:   keys,
	}
}

// Normalize converts raw to its enum value or returns an error naming the
// valid options.
func (e *EnumNormalizer[T]) Normalize(raw string) (T, error) {
	if v, ok := e.validValues[normalize(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %s", e.enumName, raw, strings.Join(e.validKeys, ", "))
}

// IsValid reports whether raw names a value.
func (e *EnumNormalizer[T]) IsValid(raw string) bool {
	_, ok := e.validValues[normalize(raw)]
	return ok
}

// ValidValues returns the accepted spellings, sorted.
func (e *EnumNormalizer[T]) ValidValues() []string {
	out := make([]string, len(e.validKeys))
	copy(out, e.validKeys)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

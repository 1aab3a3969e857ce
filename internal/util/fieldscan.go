// Package util holds small helpers shared across the pipeline.
package util

import (
	"fmt"
	"regexp"
	"sort"
)

// FindField searches a decoded JSON document depth-first for the first key
// matching pattern and returns its value. The same identifier appears under
// different field-name variants across the source datasets, so discovery is
// pattern-based rather than positional. When the matched value is itself an
// object, its "tekst", "navn" or "kode" member is preferred, mirroring the
// registry's coded-value wrappers. Keys are visited in lexicographic order
// so ties at the same depth resolve the same way every run.
func FindField(doc map[string]any, pattern *regexp.Regexp) (any, bool) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if pattern.MatchString(key) {
			value := doc[key]
			if obj, ok := value.(map[string]any); ok {
				for _, member := range []string{"tekst", "navn", "kode"} {
					if v, ok := obj[member]; ok {
						return v, true
					}
				}
			}
			if value == nil {
				return nil, false
			}
			return value, true
		}
	}

	// No direct hit on this level, descend.
	for _, key := range keys {
		if obj, ok := doc[key].(map[string]any); ok {
			if v, found := FindField(obj, pattern); found {
				return v, true
			}
		}
	}

	return nil, false
}

// FindFieldString is FindField with the result rendered as a string. JSON
// numbers print without a trailing ".0" so identifiers survive the round
// trip through float64.
func FindFieldString(doc map[string]any, pattern *regexp.Regexp) (string, bool) {
	v, found := FindField(doc, pattern)
	if !found || v == nil {
		return "", false
	}
	s := Stringify(v)
	if s == "" {
		return "", false
	}
	return s, true
}

// Stringify renders a decoded JSON scalar for display or use as a lookup
// key.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

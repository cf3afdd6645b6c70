package models

import (
	"strconv"
	"strings"
)

// RawStore is the unvalidated intermediate mapping one source adapter
// produced for one store. Keys are source-specific until the adapter's field
// map has run; values may be strings, numbers, nested maps, or slices.
type RawStore map[string]any

// Value resolves a dotted key path ("body.data.latitude") against nested
// maps. The second return is false when any segment is missing.
func (r RawStore) Value(path string) (any, bool) {
	var current any = map[string]any(r)

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// String resolves a dotted key path and renders the value as a string.
// Numbers are formatted without an exponent; missing or non-scalar values
// yield "".
func (r RawStore) String(path string) string {
	value, ok := r.Value(path)
	if !ok {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}

	return ""
}

// Strings resolves a dotted key path to a slice of strings, coercing
// scalar elements and skipping everything else.
func (r RawStore) Strings(path string) []string {
	value, ok := r.Value(path)
	if !ok {
		return nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// Clone returns a shallow copy so the pipeline can attach a verbatim audit
// copy without aliasing adapter state.
func (r RawStore) Clone() RawStore {
	if r == nil {
		return nil
	}

	out := make(RawStore, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

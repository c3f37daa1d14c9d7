// Package merge implements the deep-merge policy used to fold imported
// documents into the document that imports them.
//
// The policy is fixed:
//
//   - mapping + mapping: merged key by key, recursively
//   - sequence + sequence: the destination elements followed by the source
//     elements, never deduplicated
//   - anything else (two scalars, or mismatched kinds such as a sequence and
//     a mapping): the source value replaces the destination value
//
// Merging is not commutative. Applying sources in a fixed order always
// yields the same result.
package merge

// Recursive merges src into dst and returns dst. dst is modified in place;
// a nil dst is replaced by a new map. Values taken from src are stored as is,
// so callers must not reuse src afterwards.
func Recursive(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		current, exists := dst[key]
		if !exists {
			dst[key] = value
			continue
		}
		dst[key] = Value(current, value)
	}
	return dst
}

// Value merges a single pair of values under the same key and returns the
// merged value.
func Value(dst, src any) any {
	switch d := dst.(type) {
	case map[string]any:
		if s, ok := src.(map[string]any); ok {
			return Recursive(d, s)
		}
	case []any:
		if s, ok := src.([]any); ok {
			out := make([]any, 0, len(d)+len(s))
			out = append(out, d...)
			return append(out, s...)
		}
	}
	return src
}

// All merges every source into dst in order.
func All(dst map[string]any, srcs ...map[string]any) map[string]any {
	for _, src := range srcs {
		dst = Recursive(dst, src)
	}
	return dst
}

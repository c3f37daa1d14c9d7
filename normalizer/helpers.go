package normalizer

import (
	"github.com/cyrhla/loader/internal/valueutil"
	"github.com/cyrhla/loader/loaderrors"
)

// elements returns the values of a repeatable child. Trees built from XML
// always hold []any; a lone value is treated as a one-element list.
func elements(v any) []any {
	switch list := v.(type) {
	case nil:
		return nil
	case []any:
		return list
	default:
		return []any{list}
	}
}

// child returns the elements named tag under element, when element is a mapping.
func child(element any, tag string) []any {
	m, ok := element.(map[string]any)
	if !ok {
		return nil
	}
	return elements(m[tag])
}

// singletonThenGrouped collects tag elements written directly under element
// followed by those nested in every wrapper element, e.g. <argument> then
// <arguments><argument>. The result is never nil.
func singletonThenGrouped(element any, tag, wrapper string) []any {
	out := make([]any, 0)
	out = append(out, child(element, tag)...)
	for _, w := range child(element, wrapper) {
		out = append(out, child(w, tag)...)
	}
	return out
}

// attributes returns the attribute mapping of element.
func attributes(element any, attrKey string) (map[string]any, bool) {
	m, ok := element.(map[string]any)
	if !ok {
		return nil, false
	}
	attrs, ok := m[attrKey].(map[string]any)
	return attrs, ok
}

// required returns the named attribute of element or an AttributeError.
func required(element any, keys Keys, tag, name string) (any, error) {
	attrs, ok := attributes(element, keys.Attr)
	if ok {
		if v, ok := attrs[name]; ok {
			return v, nil
		}
	}
	return nil, &loaderrors.AttributeError{Element: tag, Attribute: name}
}

// requiredKey is required for attributes used as mapping keys.
func requiredKey(element any, keys Keys, tag, name string) (string, error) {
	v, err := required(element, keys, tag, name)
	if err != nil {
		return "", err
	}
	return valueutil.KeyString(v), nil
}

// text returns the text content of element; nil when it has none.
func text(element any, charKey string) any {
	if m, ok := element.(map[string]any); ok {
		return m[charKey]
	}
	return element
}

// keepGlobalAttributes wraps the root attribute mapping in a list so the
// partial carries it through, unless an earlier pass already wrapped it.
func keepGlobalAttributes(doc, partial map[string]any, attrKey string) {
	v, ok := doc[attrKey]
	if !ok {
		return
	}
	if _, isList := v.([]any); isList {
		return
	}
	partial[attrKey] = []any{v}
}

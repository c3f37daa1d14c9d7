package normalizer

import "strconv"

// ContainerNormalizer flattens container sections into dotted keys:
//
//	parameters.<name>       from parameters
//	services.<id>           from services
//	parameters.translations from translations
//	parameters.routing      from routing
//
// The consumed keys are removed from the document it is given. Lists are
// flattened by index.
type ContainerNormalizer struct{}

// Normalize implements Normalizer.
func (ContainerNormalizer) Normalize(doc map[string]any) (map[string]any, error) {
	out := make(map[string]any)

	if v, ok := doc["parameters"]; ok {
		flatten(out, "parameters.", v)
		delete(doc, "parameters")
	}
	for _, key := range []string{"translations", "routing"} {
		if v, ok := doc[key]; ok {
			out["parameters."+key] = v
			delete(doc, key)
		}
	}
	if v, ok := doc["services"]; ok {
		flatten(out, "services.", v)
		delete(doc, "services")
	}
	return out, nil
}

// flatten writes one entry per member of v. Scalars have no members.
func flatten(out map[string]any, prefix string, v any) {
	switch section := v.(type) {
	case map[string]any:
		for k, member := range section {
			out[prefix+k] = member
		}
	case []any:
		for i, member := range section {
			out[prefix+strconv.Itoa(i)] = member
		}
	}
}

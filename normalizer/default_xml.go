package normalizer

// DefaultXML extracts import directives from an XML tree:
//
//	<imports>
//	    <import resource="parameters.yml"/>
//	    <import resource="services.xml"/>
//	</imports>
//
// becomes {"imports": ["parameters.yml", "services.xml"]}. Every <import>
// must carry a resource attribute.
type DefaultXML struct{}

// NormalizeXML implements XMLNormalizer.
func (DefaultXML) NormalizeXML(doc map[string]any, keys Keys) (map[string]any, error) {
	out := make(map[string]any)
	if keys.NoImports {
		return out, nil
	}
	raw, ok := doc[keys.Imports]
	if !ok {
		return out, nil
	}

	imports := make([]any, 0)
	for _, wrapper := range elements(raw) {
		for _, imp := range child(wrapper, "import") {
			resource, err := required(imp, keys, "import", "resource")
			if err != nil {
				return nil, err
			}
			imports = append(imports, resource)
		}
	}
	out[keys.Imports] = imports
	return out, nil
}

package normalizer

// Translation maps a language code to its text.
type Translation map[string]any

// Catalog holds the translations declared by a document, keyed by id.
// Translations is nil when the document had no <translations> element.
type Catalog struct {
	Translations map[string]Translation
}

// Map returns the generic view of the catalog.
func (c *Catalog) Map() map[string]any {
	out := make(map[string]any, 1)
	if c.Translations == nil {
		return out
	}
	translations := make(map[string]any, len(c.Translations))
	for id, tr := range c.Translations {
		texts := make(map[string]any, len(tr))
		for lang, v := range tr {
			texts[lang] = v
		}
		translations[id] = texts
	}
	out["translations"] = translations
	return out
}

// ParseCatalog reads translations from an XML tree:
//
//	<translator>
//	    <translations>
//	        <translation id="blog.HELLO">
//	            <text lang="en">Hello</text>
//	            <text lang="de">Hallo</text>
//	        </translation>
//	    </translations>
//	</translator>
//
// Every <translation> must carry an id and every <text> a lang.
func ParseCatalog(doc map[string]any, keys Keys) (*Catalog, error) {
	c := &Catalog{}
	raw, ok := doc["translations"]
	if !ok {
		return c, nil
	}

	c.Translations = make(map[string]Translation)
	for _, wrapper := range elements(raw) {
		for _, element := range child(wrapper, "translation") {
			id, err := requiredKey(element, keys, "translation", "id")
			if err != nil {
				return nil, err
			}
			tr := make(Translation)
			for _, t := range child(element, "text") {
				lang, err := requiredKey(t, keys, "text", "lang")
				if err != nil {
					return nil, err
				}
				tr[lang] = text(t, keys.Char)
			}
			c.Translations[id] = tr
		}
	}
	return c, nil
}

// TranslatorXML is the XMLNormalizer form of ParseCatalog.
type TranslatorXML struct{}

// NormalizeXML implements XMLNormalizer.
func (TranslatorXML) NormalizeXML(doc map[string]any, keys Keys) (map[string]any, error) {
	c, err := ParseCatalog(doc, keys)
	if err != nil {
		return nil, err
	}
	out := c.Map()
	keepGlobalAttributes(doc, out, keys.Attr)
	return out, nil
}

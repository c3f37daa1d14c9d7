// Package normalizer reshapes parsed documents into the keyed structures
// applications consume.
//
// Two capabilities exist. An [XMLNormalizer] runs only for XML sources and
// receives the attribute and text keys the tree was built with; a
// [Normalizer] runs for every format after XML normalization. Both return a
// partial document that the loader merges shallowly into the working
// document, in registration order, so a later normalizer wins on a key
// collision.
//
// The package provides:
//
//   - [DefaultXML]: flattens <imports><import resource="..."/></imports>
//     into a list of paths; the loader always runs it first
//   - [ContainerXML]: builds parameter and service definitions
//   - [TranslatorXML]: builds translation catalogs keyed by id and language
//   - [ContainerNormalizer]: flattens parameters and services into dotted keys
package normalizer

// Keys names the document keys normalizers work with.
type Keys struct {
	// Attr is the key XML attributes are stored under.
	Attr string
	// Char is the key XML text content is stored under.
	Char string
	// Imports is the key listing the files to import.
	Imports string
	// NoImports disables import handling; Imports is ignored.
	NoImports bool
}

// XMLNormalizer transforms the tree of an XML source.
type XMLNormalizer interface {
	NormalizeXML(doc map[string]any, keys Keys) (map[string]any, error)
}

// Normalizer transforms a parsed document of any format.
type Normalizer interface {
	Normalize(doc map[string]any) (map[string]any, error)
}

// XMLNormalizerFunc adapts a function to the XMLNormalizer interface.
type XMLNormalizerFunc func(doc map[string]any, keys Keys) (map[string]any, error)

// NormalizeXML implements XMLNormalizer.
func (f XMLNormalizerFunc) NormalizeXML(doc map[string]any, keys Keys) (map[string]any, error) {
	return f(doc, keys)
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(doc map[string]any) (map[string]any, error)

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(doc map[string]any) (map[string]any, error) {
	return f(doc)
}

var (
	_ XMLNormalizer = DefaultXML{}
	_ XMLNormalizer = ContainerXML{}
	_ XMLNormalizer = TranslatorXML{}
	_ Normalizer    = ContainerNormalizer{}
)

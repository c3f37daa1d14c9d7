// Package loader reads configuration files written in JSON, YAML or XML
// and produces one merged document.
//
// # Overview
//
// A configuration file may list other files under its imports key. Each
// import is loaded the same way, recursively, and merged into the
// importer in declaration order:
//
//   - mappings are merged key by key
//   - lists are concatenated, duplicates kept
//   - any other value from the later file replaces the earlier one
//
// The format is chosen by file extension (see [DefaultExtensions]), so a
// YAML file can import XML which imports JSON.
//
// # XML sources
//
// XML is converted into a tree in which attributes live under "$", text
// under "_" and repeated elements under lists (see package xmltree).
// Attribute and text values are typed: "true" becomes a bool, "-0.1" a
// number, "null" nil and "[1,2]" a list. The tree then runs through XML
// normalizers. The import normalizer always runs first and turns
//
//	<imports><import resource="services.xml"/></imports>
//
// into a list of paths; further normalizers such as normalizer.ContainerXML
// and normalizer.TranslatorXML are added with [WithXMLNormalizer].
//
// # Schema validation
//
// With [WithValidator], every XML source is checked against the schemas
// named by its root element's schemaLocation attribute before it is
// normalized. Schemas published over HTTP are looked up next to the file
// (and in its schema/ subdirectory) before being fetched.
//
// # Quick Start
//
//	result, err := loader.Load("config/app.yml",
//	    loader.WithXMLNormalizer(normalizer.ContainerXML{}),
//	    loader.WithNormalizer(normalizer.ContainerNormalizer{}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Document["parameters.locale"])
//
// # Errors
//
// All errors are defined in package loaderrors and support errors.Is and
// errors.As. A failed load never returns a partial document.
package loader

// Package schemaloc locates the XSD schemas an XML document declares and
// feeds them to a validator.
//
// The declaration is the first attribute of the root element named
// <prefix>:schemaLocation. Its value lists namespace/location pairs; only
// the locations (odd positions) are used:
//
//	xsi:schemaLocation="http://example.com/ns http://example.com/ns-1.0.xsd"
//
// A local location is read relative to the document's directory. A network
// location (http:// or https://) is looked up as a local copy first, under
// the document's directory or its schema/ subdirectory, and fetched only
// when neither exists:
//
//	r := schemaloc.NewResolver(schemaloc.Config{Fs: afero.NewOsFs()})
//	err := r.Validate(ctx, "config", xmlBytes, func(schema, doc []byte) error {
//	    return myXSD.Validate(schema, doc)
//	})
package schemaloc

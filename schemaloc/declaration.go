package schemaloc

import (
	"net/url"
	"strings"

	"github.com/cyrhla/loader/loaderrors"
	"github.com/cyrhla/loader/xmltree"
)

const locationSuffix = ":schemaLocation"

// Declaration is a parsed schemaLocation attribute.
type Declaration struct {
	// Prefix is the namespace prefix, e.g. "xsi".
	Prefix string
	// Attribute is the full attribute name, e.g. "xsi:schemaLocation".
	Attribute string
	// Locations are the schema locations in declaration order.
	Locations []string
}

// Find returns the schema declaration of an XML document. It fails with a
// *loaderrors.SchemaLocationError when the root element has no
// schemaLocation attribute or the attribute names no location.
func Find(data []byte) (*Declaration, error) {
	attrs, err := xmltree.RootAttributes(data)
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		prefix, ok := strings.CutSuffix(a.Name, locationSuffix)
		if !ok || prefix == "" || strings.Contains(prefix, ":") {
			continue
		}
		locations := Locations(a.Value)
		if len(locations) == 0 {
			return nil, &loaderrors.SchemaLocationError{Attribute: a.Name, IsMalformed: true}
		}
		return &Declaration{Prefix: prefix, Attribute: a.Name, Locations: locations}, nil
	}
	return nil, &loaderrors.SchemaLocationError{}
}

// Locations splits a schemaLocation value and keeps every second token.
func Locations(value string) []string {
	fields := strings.Fields(value)
	out := make([]string, 0, len(fields)/2)
	for i := 1; i < len(fields); i += 2 {
		out = append(out, fields[i])
	}
	return out
}

// IsNetwork reports whether location carries a scheme prefix such as
// "https://". Single-letter schemes are Windows drive letters, not schemes.
func IsNetwork(location string) bool {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) < 2 {
		return false
	}
	return strings.HasPrefix(location[len(u.Scheme):], "://")
}

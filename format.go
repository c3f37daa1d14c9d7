package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"go.yaml.in/yaml/v4"

	"github.com/cyrhla/loader/internal/valueutil"
	"github.com/cyrhla/loader/loaderrors"
	"github.com/cyrhla/loader/xmltree"
)

// Format identifies the decoder used for a source file.
type Format string

const (
	// FormatJSON decodes JSON, with comments allowed
	FormatJSON Format = "json"
	// FormatYAML decodes YAML
	FormatYAML Format = "yaml"
	// FormatXML decodes XML into an attribute-keyed tree
	FormatXML Format = "xml"
)

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatXML:
		return true
	}
	return false
}

// DefaultExtensions returns the extension table used unless overridden
// with WithExtension. Extensions are lower case without the leading dot.
func DefaultExtensions() map[string]Format {
	table := map[string]Format{
		"js":    FormatJSON,
		"json":  FormatJSON,
		"jsonc": FormatJSON,
		"yml":   FormatYAML,
		"yaml":  FormatYAML,
	}
	for _, ext := range []string{
		"atom", "dtd", "gpx", "html", "kml", "rdf", "rss", "svg", "vxml",
		"xaml", "xht", "xhtml", "xlf", "xml", "xsd", "xsl", "xslt",
	} {
		table[ext] = FormatXML
	}
	return table
}

// extension returns the lower-cased extension of path without the dot.
func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func formatFor(table map[string]Format, path string) (Format, error) {
	ext := extension(path)
	if f, ok := table[ext]; ok {
		return f, nil
	}
	return "", &loaderrors.FormatError{Path: path, Extension: ext}
}

func decodeJSON(data []byte) (map[string]any, error) {
	stripped := jsonc.ToJSON(data)
	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, jsonError(stripped, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &loaderrors.ParseError{
			Format:  string(FormatJSON),
			Line:    lineAt(stripped, dec.InputOffset()),
			Message: "unexpected data after top-level value",
		}
	}

	doc, ok := valueutil.Canonical(v).(map[string]any)
	if !ok {
		return nil, &loaderrors.ParseError{Format: string(FormatJSON), Message: "document root must be an object"}
	}
	return doc, nil
}

func jsonError(data []byte, err error) error {
	pe := &loaderrors.ParseError{Format: string(FormatJSON), Cause: err}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	switch {
	case errors.As(err, &se):
		pe.Line = lineAt(data, se.Offset)
	case errors.As(err, &te):
		pe.Line = lineAt(data, te.Offset)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		pe.Message = "unexpected end of input"
		pe.Cause = nil
	}
	return pe
}

// lineAt returns the 1-based line holding byte offset.
func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(data []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		pe := &loaderrors.ParseError{Format: string(FormatYAML), Cause: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
		}
		return nil, pe
	}
	if v == nil {
		return map[string]any{}, nil
	}
	doc, ok := valueutil.Canonical(v).(map[string]any)
	if !ok {
		return nil, &loaderrors.ParseError{Format: string(FormatYAML), Message: "document root must be a mapping"}
	}
	return doc, nil
}

func decode(format Format, data []byte, xmlOpts xmltree.Options) (map[string]any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatXML:
		return xmltree.Parse(data, xmlOpts)
	}
	return nil, &loaderrors.ParseError{Format: string(format), Message: "no decoder"}
}

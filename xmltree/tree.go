// Package xmltree converts XML documents into attribute-keyed trees that
// share the generic mapping shape of decoded JSON and YAML.
//
// The shape follows the xml2js conventions configuration files in this
// format were written against:
//
//   - attributes of an element are stored under [Options.AttrKey] ("$")
//     with their qualified names, e.g. "xsi:schemaLocation"
//   - child elements are grouped by tag name into []any, in document order,
//     even when a tag appears once
//   - text is stored under [Options.CharKey] ("_"); whitespace-only text is
//     dropped, and an element holding nothing but text collapses to its text
//   - an element holding nothing collapses to "" (or to the whitespace it held)
//
// For example
//
//	<container>
//	    <service id="mailer" public="true">
//	        <argument>%smtp.host%</argument>
//	    </service>
//	</container>
//
// becomes
//
//	{"service": [{"$": {"id": "mailer", "public": true}, "argument": ["%smtp.host%"]}]}
//
// Attribute and text values are passed through configurable [Processor]
// chains; [DefaultProcessors] types numbers, booleans, null and embedded JSON.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/cyrhla/loader/loaderrors"
)

const (
	// DefaultAttrKey is the key attributes are stored under.
	DefaultAttrKey = "$"
	// DefaultCharKey is the key text content is stored under.
	DefaultCharKey = "_"
)

// Options configures tree construction.
type Options struct {
	// AttrKey is the key attributes are stored under.
	AttrKey string
	// CharKey is the key text content is stored under.
	CharKey string
	// ExplicitRoot wraps the result in a mapping keyed by the root tag name.
	ExplicitRoot bool
	// AttrValueProcessors are applied to every attribute value. Nil or empty
	// keeps attribute values as raw strings.
	AttrValueProcessors []Processor
	// ValueProcessors are applied to every non-blank text value.
	ValueProcessors []Processor
}

// DefaultOptions returns the options used by the loader unless overridden.
func DefaultOptions() Options {
	return Options{
		AttrKey:             DefaultAttrKey,
		CharKey:             DefaultCharKey,
		AttrValueProcessors: DefaultProcessors(),
		ValueProcessors:     DefaultProcessors(),
	}
}

// Attr is a root element attribute with its qualified name.
type Attr struct {
	Name  string
	Value string
}

type frame struct {
	name string
	obj  map[string]any
	text strings.Builder
}

// Parse builds the tree for an XML document. Syntax errors and failing
// value processors are reported as *loaderrors.ParseError without a Path;
// the caller knows which file it handed over.
func Parse(data []byte, opts Options) (map[string]any, error) {
	if opts.AttrKey == "" {
		opts.AttrKey = DefaultAttrKey
	}
	if opts.CharKey == "" {
		opts.CharKey = DefaultCharKey
	}

	d := newDecoder(data)
	var (
		stack    []*frame
		root     any
		rootName string
		done     bool
	)

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, syntaxError(d, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if done {
				return nil, parseError(d, "multiple root elements")
			}
			f := &frame{name: qualified(t.Name), obj: make(map[string]any)}
			if len(t.Attr) > 0 {
				attrs := make(map[string]any, len(t.Attr))
				for _, a := range t.Attr {
					v, err := process(opts.AttrValueProcessors, a.Value)
					if err != nil {
						return nil, valueError(d, f.name, err)
					}
					attrs[qualified(a.Name)] = v
				}
				f.obj[opts.AttrKey] = attrs
			}
			stack = append(stack, f)

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, parseError(d, "text data outside of root node")
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, parseError(d, fmt.Sprintf("unexpected closing tag </%s>", name))
			}
			f := stack[len(stack)-1]
			if f.name != name {
				return nil, parseError(d, fmt.Sprintf("unexpected closing tag </%s>, expected </%s>", name, f.name))
			}
			stack = stack[:len(stack)-1]

			value, err := f.close(opts)
			if err != nil {
				return nil, valueError(d, f.name, err)
			}
			if len(stack) == 0 {
				root, rootName, done = value, f.name, true
				continue
			}
			assignOrPush(stack[len(stack)-1].obj, f.name, value)
		}
	}

	if len(stack) > 0 {
		return nil, parseError(d, fmt.Sprintf("unclosed element <%s>", stack[len(stack)-1].name))
	}
	if !done {
		return nil, parseError(d, "document has no root element")
	}

	if opts.ExplicitRoot {
		return map[string]any{rootName: root}, nil
	}
	switch v := root.(type) {
	case map[string]any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]any{}, nil
		}
	}
	return map[string]any{opts.CharKey: root}, nil
}

// RootAttributes returns the attributes of the root element in document
// order, without value processing.
func RootAttributes(data []byte) ([]Attr, error) {
	d := newDecoder(data)
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			return nil, parseError(d, "document has no root element")
		}
		if err != nil {
			return nil, syntaxError(d, err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			attrs := make([]Attr, 0, len(start.Attr))
			for _, a := range start.Attr {
				attrs = append(attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			return attrs, nil
		}
	}
}

func (f *frame) close(opts Options) (any, error) {
	text := f.text.String()
	var value any = f.obj
	if strings.TrimSpace(text) != "" {
		processed, err := process(opts.ValueProcessors, text)
		if err != nil {
			return nil, err
		}
		f.obj[opts.CharKey] = processed
		if len(f.obj) == 1 {
			value = processed
		}
	}
	if len(f.obj) == 0 {
		return text, nil
	}
	return value, nil
}

func assignOrPush(obj map[string]any, name string, value any) {
	existing, ok := obj[name]
	if !ok {
		obj[name] = []any{value}
		return
	}
	if list, ok := existing.([]any); ok {
		obj[name] = append(list, value)
		return
	}
	obj[name] = []any{existing, value}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func newDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.CharsetReader = charsetReader
	return d
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "us-ascii", "ascii":
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func parseError(d *xml.Decoder, msg string) *loaderrors.ParseError {
	line, _ := d.InputPos()
	return &loaderrors.ParseError{Format: "xml", Line: line, Message: msg}
}

func syntaxError(d *xml.Decoder, err error) *loaderrors.ParseError {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &loaderrors.ParseError{Format: "xml", Line: se.Line, Message: se.Msg}
	}
	line, _ := d.InputPos()
	return &loaderrors.ParseError{Format: "xml", Line: line, Cause: err}
}

func valueError(d *xml.Decoder, element string, err error) *loaderrors.ParseError {
	line, _ := d.InputPos()
	return &loaderrors.ParseError{
		Format:  "xml",
		Line:    line,
		Message: fmt.Sprintf("processing value of <%s>", element),
		Cause:   err,
	}
}

// Package loaderrors provides structured error types for the loader.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the failure kinds a
// load can end with. Every kind aborts the whole load chain; no partial
// document is ever returned alongside one of these errors.
//
// # Error Categories
//
//   - FormatError: the file extension has no registered parser
//   - ParseError: JSON/YAML/XML syntax errors and malformed scalar values
//   - AttributeError: a required id, method, lang or resource attribute is absent
//   - SchemaLocationError: the schemaLocation declaration is missing or empty
//   - FetchError: a remote schema could not be fetched
//   - ImportError: an import target is unreadable, malformed or circular
//   - ResourceLimitError: the import chain is nested too deeply
//   - ConfigError: invalid loader options
//
// # Usage with errors.As
//
//	result, err := loader.Load("services.xml")
//	if err != nil {
//	    var attrErr *loaderrors.AttributeError
//	    if errors.As(err, &attrErr) {
//	        fmt.Println(attrErr.Element, attrErr.Attribute)
//	    }
//	}
package loaderrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnsupportedFormat indicates no parser is registered for a file extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrParse indicates the underlying parser rejected the input.
	ErrParse = errors.New("parse error")

	// ErrMissingAttribute indicates a required XML attribute is absent.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrMissingSchemaDeclaration indicates the root element has no <prefix>:schemaLocation attribute.
	ErrMissingSchemaDeclaration = errors.New("missing schema location declaration")

	// ErrMalformedSchemaDeclaration indicates the schemaLocation attribute names no schema file.
	ErrMalformedSchemaDeclaration = errors.New("malformed schema location declaration")

	// ErrSchemaFetch indicates a remote schema request failed.
	ErrSchemaFetch = errors.New("schema fetch failed")

	// ErrImport indicates an import target could not be loaded.
	ErrImport = errors.New("import error")

	// ErrCircularImport indicates a file imports itself, directly or transitively.
	ErrCircularImport = errors.New("circular import")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// FormatError reports a file whose extension maps to no parser.
type FormatError struct {
	// Path is the file that could not be dispatched
	Path string
	// Extension is the lower-cased extension without the leading dot
	Extension string
}

// Error returns a human-readable error message.
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("parser not found for extension %q", e.Extension)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseError represents a failure to parse a source document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Format is the format being decoded: "json", "yaml" or "xml"
	Format string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Format != "" {
		msg = e.Format + " " + msg
	}
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// AttributeError reports an element lacking an attribute it must carry.
type AttributeError struct {
	// Path is the source file, filled in by the loader
	Path string
	// Element is the tag name of the offending element (e.g. "service")
	Element string
	// Attribute is the missing attribute name (e.g. "id")
	Attribute string
}

// Error returns a human-readable error message.
func (e *AttributeError) Error() string {
	msg := fmt.Sprintf("%s attribute is not defined on <%s>", e.Attribute, e.Element)
	if e.Path != "" {
		msg += " in " + e.Path
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *AttributeError) Is(target error) bool {
	return target == ErrMissingAttribute
}

// SchemaLocationError reports a missing or empty schemaLocation declaration.
type SchemaLocationError struct {
	// Path is the XML source file
	Path string
	// Attribute is the declaration attribute, e.g. "xsi:schemaLocation" (empty when missing)
	Attribute string
	// IsMalformed is true when the attribute exists but names no schema file
	IsMalformed bool
}

// Error returns a human-readable error message.
func (e *SchemaLocationError) Error() string {
	var msg string
	if e.IsMalformed {
		msg = e.Attribute + " attribute - XSD file is not defined"
	} else {
		msg = "...:schemaLocation attribute is not defined"
	}
	if e.Path != "" {
		msg += " in " + e.Path
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SchemaLocationError) Is(target error) bool {
	if e.IsMalformed {
		return target == ErrMalformedSchemaDeclaration
	}
	return target == ErrMissingSchemaDeclaration
}

// FetchError represents a failed request for a remote schema.
type FetchError struct {
	// URL is the requested location
	URL string
	// StatusCode is the HTTP status (0 when the request never completed)
	StatusCode int
	// Cause is the underlying transport error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "request failed"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status code: %d", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrSchemaFetch
}

// ImportError represents a failure to load an import target.
type ImportError struct {
	// Path is the import target as resolved on disk
	Path string
	// Importer is the file that declared the import (empty for the root file)
	Importer string
	// IsCircular is true if the target is already being loaded higher up the chain
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ImportError) Error() string {
	msg := "import error"
	if e.IsCircular {
		msg = "circular import"
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Importer != "" {
		msg += " (imported from " + e.Importer + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrImport, and also ErrCircularImport when IsCircular is set.
func (e *ImportError) Is(target error) bool {
	if target == ErrImport {
		return true
	}
	return target == ErrCircularImport && e.IsCircular
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded, e.g. "import_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

package loaderrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ParseError{
			Path:    "/etc/app/data.yml",
			Format:  "yaml",
			Line:    42,
			Message: "invalid syntax",
			Cause:   errors.New("underlying error"),
		}
		assert.Equal(t, "yaml parse error in /etc/app/data.yml at line 42: invalid syntax: underlying error", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "parse error", (&ParseError{}).Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		assert.Same(t, cause, err.Unwrap())
	})

	t.Run("errors.Is matches sentinel", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &ParseError{Path: "a.json"})
		assert.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrImport)
	})
}

func TestFormatError(t *testing.T) {
	err := &FormatError{Path: "conf/app.ini", Extension: "ini"}
	assert.Equal(t, `parser not found for extension "ini" (conf/app.ini)`, err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAttributeError(t *testing.T) {
	err := &AttributeError{Element: "service", Attribute: "id", Path: "services.xml"}
	assert.Equal(t, "id attribute is not defined on <service> in services.xml", err.Error())
	assert.ErrorIs(t, err, ErrMissingAttribute)

	var target *AttributeError
	assert.True(t, errors.As(fmt.Errorf("load: %w", err), &target))
	assert.Equal(t, "id", target.Attribute)
}

func TestSchemaLocationError(t *testing.T) {
	t.Run("missing declaration", func(t *testing.T) {
		err := &SchemaLocationError{Path: "data2.xml"}
		assert.ErrorIs(t, err, ErrMissingSchemaDeclaration)
		assert.NotErrorIs(t, err, ErrMalformedSchemaDeclaration)
		assert.Contains(t, err.Error(), ":schemaLocation attribute is not defined")
	})

	t.Run("malformed declaration", func(t *testing.T) {
		err := &SchemaLocationError{Attribute: "xsi:schemaLocation", IsMalformed: true}
		assert.ErrorIs(t, err, ErrMalformedSchemaDeclaration)
		assert.NotErrorIs(t, err, ErrMissingSchemaDeclaration)
		assert.Equal(t, "xsi:schemaLocation attribute - XSD file is not defined", err.Error())
	})
}

func TestFetchError(t *testing.T) {
	err := &FetchError{URL: "http://example.com/a.xsd", StatusCode: 404}
	assert.Equal(t, "request failed for http://example.com/a.xsd, status code: 404", err.Error())
	assert.ErrorIs(t, err, ErrSchemaFetch)
	assert.Nil(t, err.Unwrap())
}

func TestImportError(t *testing.T) {
	t.Run("unreadable target", func(t *testing.T) {
		err := &ImportError{Path: "/cfg/b.json", Importer: "/cfg/a.yml", Cause: fs.ErrNotExist}
		assert.ErrorIs(t, err, ErrImport)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotErrorIs(t, err, ErrCircularImport)
		assert.Equal(t, "import error: /cfg/b.json (imported from /cfg/a.yml): file does not exist", err.Error())
	})

	t.Run("circular", func(t *testing.T) {
		err := &ImportError{Path: "/cfg/a.yml", IsCircular: true}
		assert.ErrorIs(t, err, ErrImport)
		assert.ErrorIs(t, err, ErrCircularImport)
		assert.Equal(t, "circular import: /cfg/a.yml", err.Error())
	})
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "import_depth", Limit: 100, Actual: 101}
	assert.Equal(t, "resource limit exceeded: import_depth (limit: 100, actual: 101)", err.Error())
	assert.ErrorIs(t, err, ErrResourceLimit)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "WithAttrKey", Value: "", Message: "key cannot be empty"}
	assert.Equal(t, "configuration error for WithAttrKey (value: ): key cannot be empty", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
}

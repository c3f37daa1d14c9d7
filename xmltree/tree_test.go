package xmltree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrhla/loader/loaderrors"
)

const fooXML = `<?xml version="1.0" encoding="UTF-8"?>
<root>
    <imports>
        <import resource="data3.json"/>
    </imports>
    <fooXml id="_123" class="abc" data-number="-.1" data-boolean="true" data-null="null">
        <arguments>
            <argument>0</argument>
            <argument>3.14</argument>
            <argument>null</argument>
            <argument>true</argument>
            <argument>false</argument>
            <argument>"Żółć"
 abc</argument>
        </arguments>
        <arguments>
            <argument></argument>
            <argument> </argument>
        </arguments>
    </fooXml>
</root>`

func TestParse_DefaultOptions(t *testing.T) {
	got, err := Parse([]byte(fooXML), DefaultOptions())
	require.NoError(t, err)

	expected := map[string]any{
		"imports": []any{
			map[string]any{
				"import": []any{
					map[string]any{"$": map[string]any{"resource": "data3.json"}},
				},
			},
		},
		"fooXml": []any{
			map[string]any{
				"$": map[string]any{
					"id":           "_123",
					"class":        "abc",
					"data-number":  -0.1,
					"data-boolean": true,
					"data-null":    nil,
				},
				"arguments": []any{
					map[string]any{"argument": []any{0, 3.14, nil, true, false, "\"Żółć\"\n abc"}},
					map[string]any{"argument": []any{"", " "}},
				},
			},
		},
	}
	assert.Equal(t, expected, got)
}

func TestParse_ExplicitRootWithoutProcessors(t *testing.T) {
	got, err := Parse([]byte(fooXML), Options{ExplicitRoot: true})
	require.NoError(t, err)

	require.Contains(t, got, "root")
	root := got["root"].(map[string]any)
	foo := root["fooXml"].([]any)[0].(map[string]any)

	assert.Equal(t, map[string]any{
		"id":           "_123",
		"class":        "abc",
		"data-number":  "-.1",
		"data-boolean": "true",
		"data-null":    "null",
	}, foo["$"])
	assert.Equal(t,
		[]any{"0", "3.14", "null", "true", "false", "\"Żółć\"\n abc"},
		foo["arguments"].([]any)[0].(map[string]any)["argument"])
}

func TestParse_TextWithAttributes(t *testing.T) {
	data := `<container>
  <parameters>
    <parameter id="foo"/>
    <parameter id="bar">-0.1</parameter>
    <parameter id=" {}"> []</parameter>
    <parameter id="[0, false]">{"foo": null, "bar": "baz"}</parameter>
  </parameters>
</container>`

	got, err := Parse([]byte(data), DefaultOptions())
	require.NoError(t, err)

	params := got["parameters"].([]any)[0].(map[string]any)["parameter"].([]any)
	require.Len(t, params, 4)
	assert.Equal(t, map[string]any{"$": map[string]any{"id": "foo"}}, params[0])
	assert.Equal(t, map[string]any{"$": map[string]any{"id": "bar"}, "_": -0.1}, params[1])
	assert.Equal(t, map[string]any{"$": map[string]any{"id": map[string]any{}}, "_": []any{}}, params[2])
	assert.Equal(t, map[string]any{
		"$": map[string]any{"id": []any{0, false}},
		"_": map[string]any{"foo": nil, "bar": "baz"},
	}, params[3])
}

func TestParse_CustomKeys(t *testing.T) {
	opts := DefaultOptions()
	opts.AttrKey = "@"
	opts.CharKey = "="

	got, err := Parse([]byte(`<c><text lang="en">Hello</text></c>`), opts)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"text": []any{map[string]any{"@": map[string]any{"lang": "en"}, "=": "Hello"}},
	}, got)
}

func TestParse_RootAttributesAndScalars(t *testing.T) {
	t.Run("root attributes kept with qualified names", func(t *testing.T) {
		got, err := Parse([]byte(`<c xmlns="urn:c" xmlns:xsi="urn:xsi" xsi:schemaLocation="urn:c c.xsd"/>`), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"$": map[string]any{
			"xmlns":              "urn:c",
			"xmlns:xsi":          "urn:xsi",
			"xsi:schemaLocation": "urn:c c.xsd",
		}}, got)
	})

	t.Run("empty root yields empty document", func(t *testing.T) {
		got, err := Parse([]byte("<c>\n</c>"), DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("text-only root stored under char key", func(t *testing.T) {
		got, err := Parse([]byte("<c>42</c>"), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"_": 42}, got)
	})
}

func TestParse_Charset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-2\"?><c><t>\xaf\xf3\xb3\xe6</t></c>")

	got, err := Parse(data, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"t": []any{"Żółć"}}, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"mismatched tags", "<a><b></a></b>"},
		{"unclosed element", "<a><b></b>"},
		{"no root", "  "},
		{"text outside root", "<a/>trailing"},
		{"multiple roots", "<a/><b/>"},
		{"invalid embedded json", "<a>[abc]</a>"},
		{"malformed attribute", `<a id=foo/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, loaderrors.ErrParse)

			var pe *loaderrors.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "xml", pe.Format)
		})
	}
}

func TestRootAttributes_DocumentOrder(t *testing.T) {
	data := `<?xml version="1.0"?>
<!-- leading comment -->
<container xmlns="urn:c" xmlns:xsi="urn:xsi" xxx:schemaLocation="urn:c a.xsd" xsi:schemaLocation="urn:c b.xsd">
  <service id="a"/>
</container>`

	attrs, err := RootAttributes([]byte(data))
	require.NoError(t, err)

	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"xmlns", "xmlns:xsi", "xxx:schemaLocation", "xsi:schemaLocation"}, names)
	assert.Equal(t, "urn:c a.xsd", attrs[2].Value)
}

package schemaloc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyrhla/loader/loaderrors"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container xmlns="http://www.cyrhla.com/2017/schema/container"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
    xsi:schemaLocation="http://www.cyrhla.com/2017/schema/container http://www.cyrhla.com/2017/schema/container-1.0.xsd">
    <parameters><parameter id="foo">bar</parameter></parameters>
</container>`

func TestFind(t *testing.T) {
	t.Run("first schemaLocation attribute", func(t *testing.T) {
		decl, err := Find([]byte(containerXML))
		require.NoError(t, err)
		assert.Equal(t, "xsi", decl.Prefix)
		assert.Equal(t, "xsi:schemaLocation", decl.Attribute)
		assert.Equal(t, []string{"http://www.cyrhla.com/2017/schema/container-1.0.xsd"}, decl.Locations)
	})

	t.Run("other prefix", func(t *testing.T) {
		decl, err := Find([]byte(`<root xmlns:s="http://www.w3.org/2001/XMLSchema-instance" s:schemaLocation="ns a.xsd" xsi:schemaLocation="ns b.xsd"/>`))
		require.NoError(t, err)
		assert.Equal(t, "s", decl.Prefix)
		assert.Equal(t, []string{"a.xsd"}, decl.Locations)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Find([]byte(`<root xmlns="http://example.com/ns" schemaLocation="ns a.xsd"/>`))
		var locErr *loaderrors.SchemaLocationError
		require.True(t, errors.As(err, &locErr))
		assert.False(t, locErr.IsMalformed)
		assert.ErrorIs(t, err, loaderrors.ErrMissingSchemaDeclaration)
	})

	t.Run("names no schema", func(t *testing.T) {
		_, err := Find([]byte(`<root xsi:schemaLocation="http://example.com/ns"/>`))
		var locErr *loaderrors.SchemaLocationError
		require.True(t, errors.As(err, &locErr))
		assert.True(t, locErr.IsMalformed)
		assert.Equal(t, "xsi:schemaLocation", locErr.Attribute)
		assert.ErrorIs(t, err, loaderrors.ErrMalformedSchemaDeclaration)
	})

	t.Run("not xml", func(t *testing.T) {
		_, err := Find([]byte("plain text"))
		assert.ErrorIs(t, err, loaderrors.ErrParse)
	})
}

func TestLocations(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single pair", "ns a.xsd", []string{"a.xsd"}},
		{"several pairs across lines", "ns1 a.xsd\n\t ns2   b.xsd\n", []string{"a.xsd", "b.xsd"}},
		{"dangling namespace", "ns1 a.xsd ns2", []string{"a.xsd"}},
		{"namespace only", "ns", []string{}},
		{"empty", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locations(tt.value))
		})
	}
}

func TestIsNetwork(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"http://example.com/a.xsd", true},
		{"https://example.com/a.xsd", true},
		{"ftp://example.com/a.xsd", true},
		{"FILE:///schemas/a.xsd", true},
		{"a.xsd", false},
		{"schema/a.xsd", false},
		{"/abs/a.xsd", false},
		{"C:/schemas/a.xsd", false},
		{"urn:example:a", false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetwork(tt.location))
		})
	}
}

func TestResolve_UnsupportedScheme(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "conf/schema/b.xsd", []byte("B"), 0o644))
	r := NewResolver(Config{Fs: fs})

	sources, err := r.Resolve(context.Background(), "conf", []string{"ftp://example.com/b.xsd"})
	require.NoError(t, err, "a local copy is used whatever the scheme")
	assert.Equal(t, "conf/schema/b.xsd", sources[0].Path)

	_, err = r.Resolve(context.Background(), "conf", []string{"ftp://example.com/a.xsd"})
	var fetchErr *loaderrors.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "ftp://example.com/a.xsd", fetchErr.URL)
	assert.Zero(t, fetchErr.StatusCode)
	assert.ErrorIs(t, err, loaderrors.ErrSchemaFetch)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t,
		[]string{"conf/container-1.0.xsd", "conf/schema/container-1.0.xsd"},
		Candidates("conf", "http://www.cyrhla.com/2017/schema/container-1.0.xsd"))
	assert.Nil(t, Candidates("conf", "http://example.com/"))
}

func TestResolve_Local(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "conf/a.xsd", []byte("A"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/abs/b.xsd", []byte("B"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "conf/schema/container-1.0.xsd", []byte("C"), 0o644))

	r := NewResolver(Config{Fs: fs})
	sources, err := r.Resolve(context.Background(), "conf", []string{
		"a.xsd",
		"/abs/b.xsd",
		"http://www.cyrhla.com/2017/schema/container-1.0.xsd",
	})
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, Source{Location: "a.xsd", Path: "conf/a.xsd", Data: []byte("A")}, sources[0])
	assert.Equal(t, "/abs/b.xsd", sources[1].Path)
	assert.Equal(t, "conf/schema/container-1.0.xsd", sources[2].Path)
	assert.Empty(t, sources[2].URL)
}

func TestResolve_LocalCopyPrefersDocumentDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "conf/x.xsd", []byte("near"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "conf/schema/x.xsd", []byte("sub"), 0o644))

	sources, err := NewResolver(Config{Fs: fs}).Resolve(context.Background(), "conf", []string{"http://example.com/x.xsd"})
	require.NoError(t, err)
	assert.Equal(t, []byte("near"), sources[0].Data)
}

func TestResolve_LocalMissing(t *testing.T) {
	r := NewResolver(Config{Fs: afero.NewMemMapFs()})
	_, err := r.Resolve(context.Background(), "conf", []string{"missing.xsd"})
	var fetchErr *loaderrors.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "conf/missing.xsd", fetchErr.URL)
}

func TestResolve_Remote(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		agent.Store(req.Header.Get("User-Agent"))
		switch req.URL.Path {
		case "/ok.xsd":
			_, _ = w.Write([]byte("<xs:schema/>"))
		case "/accepted.xsd":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("<xs:schema id=\"b\"/>"))
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	cache, err := NewCache(8)
	require.NoError(t, err)
	r := NewResolver(Config{
		Fs:         afero.NewMemMapFs(),
		HTTPClient: srv.Client(),
		UserAgent:  "cfgload-test",
		Cache:      cache,
	})

	t.Run("fetches in order", func(t *testing.T) {
		sources, err := r.Resolve(context.Background(), "conf", []string{srv.URL + "/ok.xsd", srv.URL + "/accepted.xsd"})
		require.NoError(t, err)
		require.Len(t, sources, 2)
		assert.Equal(t, srv.URL+"/ok.xsd", sources[0].URL)
		assert.Equal(t, []byte("<xs:schema/>"), sources[0].Data)
		assert.Equal(t, srv.URL+"/accepted.xsd", sources[1].URL)
		assert.Equal(t, "cfgload-test", agent.Load())
	})

	t.Run("uses cache", func(t *testing.T) {
		before := hits.Load()
		_, err := r.Resolve(context.Background(), "conf", []string{srv.URL + "/ok.xsd"})
		require.NoError(t, err)
		assert.Equal(t, before, hits.Load())
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), "conf", []string{srv.URL + "/gone.xsd"})
		var fetchErr *loaderrors.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.ErrorIs(t, err, loaderrors.ErrSchemaFetch)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Resolve(ctx, "conf", []string{srv.URL + "/other.xsd"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestValidate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "conf/schema/container-1.0.xsd", []byte("XSD"), 0o644))
	r := NewResolver(Config{Fs: fs})

	t.Run("calls validator per schema", func(t *testing.T) {
		var calls int
		err := r.Validate(context.Background(), "conf", []byte(containerXML), func(schema, xml []byte) error {
			calls++
			assert.Equal(t, []byte("XSD"), schema)
			assert.Equal(t, []byte(containerXML), xml)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("validator error is returned unchanged", func(t *testing.T) {
		invalid := errors.New("element parameters: not allowed")
		err := r.Validate(context.Background(), "conf", []byte(containerXML), func(_, _ []byte) error {
			return invalid
		})
		assert.Same(t, invalid, err)
	})

	t.Run("missing declaration", func(t *testing.T) {
		err := r.Validate(context.Background(), "conf", []byte("<container/>"), func(_, _ []byte) error {
			t.Fatal("validator must not run")
			return nil
		})
		assert.ErrorIs(t, err, loaderrors.ErrMissingSchemaDeclaration)
	})
}

func TestNewCache(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)
	c.Add("u", []byte("x"))
	got, ok := c.Get("u")
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), got)
	assert.Equal(t, 1, c.Len())

	_, err = NewCache(-1)
	assert.ErrorIs(t, err, loaderrors.ErrConfig)

	var nilCache *Cache
	_, ok = nilCache.Get("u")
	assert.False(t, ok)
	assert.Equal(t, 0, nilCache.Len())
}

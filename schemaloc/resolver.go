package schemaloc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/cyrhla/loader/loaderrors"
)

// DefaultTimeout bounds a remote fetch when Config.HTTPClient is nil.
const DefaultTimeout = 30 * time.Second

// Logger receives debug events for resolved schemas.
type Logger interface {
	Debug(msg string, attrs ...any)
}

// Config configures a Resolver. The zero value reads the OS filesystem and
// fetches with a default client.
type Config struct {
	// Fs is the filesystem local schemas are read from.
	Fs afero.Fs
	// HTTPClient performs remote fetches.
	HTTPClient *http.Client
	// UserAgent is sent with remote fetches when non-empty.
	UserAgent string
	// Cache, when set, keeps fetched schema bodies by URL.
	Cache *Cache
	// Logger, when set, receives one event per resolved source.
	Logger Logger
}

// Source is a resolved schema.
type Source struct {
	// Location is the location as declared.
	Location string
	// Path is the local file the schema was read from; empty when fetched.
	Path string
	// URL is the fetched address; empty when read locally.
	URL string
	// Data is the schema body.
	Data []byte
}

// Validator checks an XML document against one schema.
type Validator func(schema, xml []byte) error

// Resolver turns schema locations into schema bodies.
type Resolver struct {
	fs        afero.Fs
	client    *http.Client
	userAgent string
	cache     *Cache
	logger    Logger
}

// NewResolver returns a Resolver for cfg.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		fs:        cfg.Fs,
		client:    cfg.HTTPClient,
		userAgent: cfg.UserAgent,
		cache:     cfg.Cache,
		logger:    cfg.Logger,
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: DefaultTimeout}
	}
	return r
}

// Resolve reads or fetches every location, relative to dir. Sources are
// returned in location order. Local files are read first; remote fetches
// then run concurrently and stop at the first failure.
func (r *Resolver) Resolve(ctx context.Context, dir string, locations []string) ([]Source, error) {
	sources := make([]Source, len(locations))
	var remote []int

	for i, loc := range locations {
		p := loc
		switch {
		case !IsNetwork(loc):
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
		default:
			var ok bool
			if p, ok = r.localCopy(dir, loc); !ok {
				remote = append(remote, i)
				continue
			}
		}
		data, err := afero.ReadFile(r.fs, p)
		if err != nil {
			return nil, &loaderrors.FetchError{URL: p, Cause: err}
		}
		sources[i] = Source{Location: loc, Path: p, Data: data}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, i := range remote {
		loc := locations[i]
		g.Go(func() error {
			data, err := r.fetch(gctx, loc)
			if err != nil {
				return err
			}
			sources[i] = Source{Location: loc, URL: loc, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.logger != nil {
		for _, s := range sources {
			origin := s.Path
			if origin == "" {
				origin = s.URL
			}
			r.logger.Debug("schema resolved", "location", s.Location, "origin", origin)
		}
	}
	return sources, nil
}

// Validate resolves the schemas declared by xml and calls fn once per
// schema, in declaration order. The first error from fn is returned as is.
func (r *Resolver) Validate(ctx context.Context, dir string, xml []byte, fn Validator) error {
	decl, err := Find(xml)
	if err != nil {
		return err
	}
	sources, err := r.Resolve(ctx, dir, decl.Locations)
	if err != nil {
		return err
	}
	for _, s := range sources {
		if err := fn(s.Data, xml); err != nil {
			return err
		}
	}
	return nil
}

// Candidates returns the local files checked for a network location, in
// lookup order.
func Candidates(dir, location string) []string {
	u, err := url.Parse(location)
	if err != nil {
		return nil
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return nil
	}
	return []string{
		filepath.Join(dir, base),
		filepath.Join(dir, "schema", base),
	}
}

func (r *Resolver) localCopy(dir, location string) (string, bool) {
	for _, p := range Candidates(dir, location) {
		if ok, err := afero.Exists(r.fs, p); err == nil && ok {
			return p, true
		}
	}
	return "", false
}

func (r *Resolver) fetch(ctx context.Context, location string) ([]byte, error) {
	if data, ok := r.cache.Get(location); ok {
		return data, nil
	}
	if scheme := strings.ToLower(location[:strings.Index(location, ":")]); scheme != "http" && scheme != "https" {
		return nil, &loaderrors.FetchError{URL: location, Cause: fmt.Errorf("unsupported scheme %q", scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &loaderrors.FetchError{URL: location, Cause: err}
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req) //nolint:gosec // G107 - URL comes from the document being loaded
	if err != nil {
		return nil, &loaderrors.FetchError{URL: location, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return nil, &loaderrors.FetchError{URL: location, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &loaderrors.FetchError{
			URL:        location,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("reading body: %w", err),
		}
	}
	r.cache.Add(location, data)
	return data, nil
}

package loader

import (
	"net/http"
	"strings"

	"github.com/spf13/afero"

	"github.com/cyrhla/loader/loaderrors"
	"github.com/cyrhla/loader/normalizer"
	"github.com/cyrhla/loader/schemaloc"
	"github.com/cyrhla/loader/xmltree"
)

const (
	// DefaultImportsKey is the document key listing files to import.
	DefaultImportsKey = "imports"
	// DefaultMaxImportDepth bounds the import chain length.
	DefaultMaxImportDepth = 100
)

// Option is a function that configures a load operation
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation. Imported files are
// loaded with a copy of their importer's configuration.
type loadConfig struct {
	importsKey string
	noImports  bool
	cycleError bool
	xml        xmltree.Options
	extensions map[string]Format

	validator      schemaloc.Validator
	xmlNormalizers []normalizer.XMLNormalizer
	normalizers    []normalizer.Normalizer

	fs         afero.Fs
	httpClient *http.Client
	userAgent  string
	cache      *schemaloc.Cache
	logger     Logger

	// 0 means use the default
	maxImportDepth int
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		importsKey: DefaultImportsKey,
		xml:        xmltree.DefaultOptions(),
		extensions: DefaultExtensions(),
		fs:         afero.NewOsFs(),
		userAgent:  UserAgent(),
		logger:     NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.maxImportDepth == 0 {
		cfg.maxImportDepth = DefaultMaxImportDepth
	}
	return cfg, nil
}

func (cfg *loadConfig) keys() normalizer.Keys {
	return normalizer.Keys{
		Attr:      cfg.xml.AttrKey,
		Char:      cfg.xml.CharKey,
		Imports:   cfg.importsKey,
		NoImports: cfg.noImports,
	}
}

// WithImportsKey sets the document key listing files to import.
// Default: "imports"
func WithImportsKey(key string) Option {
	return func(cfg *loadConfig) error {
		if key == "" {
			return &loaderrors.ConfigError{Option: "imports key", Value: key, Message: "cannot be empty; use WithoutImports to disable imports"}
		}
		cfg.importsKey = key
		cfg.noImports = false
		return nil
	}
}

// WithoutImports disables import handling. The imports key, if present,
// is left in the document as plain data.
func WithoutImports() Option {
	return func(cfg *loadConfig) error {
		cfg.noImports = true
		return nil
	}
}

// WithCycleError makes an import cycle fail with loaderrors.ErrCircularImport
// instead of skipping the import that closes it.
// Default: false
func WithCycleError(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.cycleError = enabled
		return nil
	}
}

// WithExplicitRoot keeps the XML root element as the single top-level key.
// Default: false
func WithExplicitRoot(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.xml.ExplicitRoot = enabled
		return nil
	}
}

// WithAttrKey sets the key XML attributes are stored under.
// Default: "$"
func WithAttrKey(key string) Option {
	return func(cfg *loadConfig) error {
		if key == "" {
			return &loaderrors.ConfigError{Option: "attr key", Value: key, Message: "cannot be empty"}
		}
		cfg.xml.AttrKey = key
		return nil
	}
}

// WithCharKey sets the key XML text content is stored under.
// Default: "_"
func WithCharKey(key string) Option {
	return func(cfg *loadConfig) error {
		if key == "" {
			return &loaderrors.ConfigError{Option: "char key", Value: key, Message: "cannot be empty"}
		}
		cfg.xml.CharKey = key
		return nil
	}
}

// WithAttrValueProcessors replaces the chain applied to XML attribute
// values. Calling it with no processors keeps attribute values as strings.
// Default: xmltree.DefaultProcessors()
func WithAttrValueProcessors(processors ...xmltree.Processor) Option {
	return func(cfg *loadConfig) error {
		cfg.xml.AttrValueProcessors = processors
		return nil
	}
}

// WithValueProcessors replaces the chain applied to XML text values.
// Default: xmltree.DefaultProcessors()
func WithValueProcessors(processors ...xmltree.Processor) Option {
	return func(cfg *loadConfig) error {
		cfg.xml.ValueProcessors = processors
		return nil
	}
}

// WithValidator validates every XML source against the schemas its root
// element declares. The loader resolves and fetches the schemas; fn only
// checks the document. Errors from fn abort the load unchanged.
func WithValidator(fn schemaloc.Validator) Option {
	return func(cfg *loadConfig) error {
		cfg.validator = fn
		return nil
	}
}

// WithXMLNormalizer appends a normalizer run on XML sources after import
// extraction. Later normalizers win on key collisions.
func WithXMLNormalizer(n normalizer.XMLNormalizer) Option {
	return func(cfg *loadConfig) error {
		if n == nil {
			return &loaderrors.ConfigError{Option: "xml normalizer", Message: "cannot be nil"}
		}
		cfg.xmlNormalizers = append(cfg.xmlNormalizers, n)
		return nil
	}
}

// WithNormalizer appends a normalizer run on every source before its
// imports are loaded.
func WithNormalizer(n normalizer.Normalizer) Option {
	return func(cfg *loadConfig) error {
		if n == nil {
			return &loaderrors.ConfigError{Option: "normalizer", Message: "cannot be nil"}
		}
		cfg.normalizers = append(cfg.normalizers, n)
		return nil
	}
}

// WithExtension maps a file extension, with or without the leading dot,
// to a format. Existing entries are replaced.
func WithExtension(ext string, format Format) Option {
	return func(cfg *loadConfig) error {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext == "" {
			return &loaderrors.ConfigError{Option: "extension", Value: ext, Message: "cannot be empty"}
		}
		if !format.IsValid() {
			return &loaderrors.ConfigError{Option: "extension", Value: format, Message: "unknown format"}
		}
		table := make(map[string]Format, len(cfg.extensions)+1)
		for k, v := range cfg.extensions {
			table[k] = v
		}
		table[ext] = format
		cfg.extensions = table
		return nil
	}
}

// WithFs sets the filesystem sources and local schemas are read from.
// Default: the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(cfg *loadConfig) error {
		if fs == nil {
			return &loaderrors.ConfigError{Option: "fs", Message: "cannot be nil"}
		}
		cfg.fs = fs
		return nil
	}
}

// WithHTTPClient sets the client used to fetch remote schemas.
// If the client is nil, this option has no effect (default client is used).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *loadConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent string for schema requests.
// Default: "cfgload/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *loadConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithSchemaCache shares a cache of fetched schemas between loads.
func WithSchemaCache(cache *schemaloc.Cache) Option {
	return func(cfg *loadConfig) error {
		cfg.cache = cache
		return nil
	}
}

// WithMaxImportDepth sets how deep imports may nest.
// A value of 0 means use the default (100).
// Returns an error if depth is negative.
func WithMaxImportDepth(depth int) Option {
	return func(cfg *loadConfig) error {
		if depth < 0 {
			return &loaderrors.ConfigError{Option: "max import depth", Value: depth, Message: "cannot be negative"}
		}
		cfg.maxImportDepth = depth
		return nil
	}
}

// WithLogger sets a structured logger for debug output during loading.
// By default, no logging is performed.
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) error {
		if l == nil {
			l = NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

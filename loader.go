package loader

import (
	"context"
	"errors"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/cyrhla/loader/loaderrors"
	"github.com/cyrhla/loader/merge"
	"github.com/cyrhla/loader/normalizer"
	"github.com/cyrhla/loader/schemaloc"
)

// Result is a loaded configuration.
type Result struct {
	// Document is the root file merged with everything it imports.
	Document map[string]any
	// SourcePath is the cleaned path of the root file.
	SourcePath string
	// Format is the format of the root file.
	Format Format
	// Sources lists every file read, root first, each once.
	Sources []string
}

// Load reads the file at path together with its imports.
//
// A file that imports one of its own importers, directly or through other
// files, is not loaded again: that import is skipped. Use WithCycleError to
// fail with loaderrors.ErrCircularImport instead.
//
// Example:
//
//	result, err := loader.Load("config/app.yml",
//	    loader.WithXMLNormalizer(normalizer.ContainerXML{}),
//	)
func Load(path string, opts ...Option) (*Result, error) {
	return LoadContext(context.Background(), path, opts...)
}

// LoadContext is Load with a context that cancels file loading and remote
// schema fetches.
func LoadContext(ctx context.Context, path string, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	l := &fileLoader{
		cfg: cfg,
		resolver: schemaloc.NewResolver(schemaloc.Config{
			Fs:         cfg.fs,
			HTTPClient: cfg.httpClient,
			UserAgent:  cfg.userAgent,
			Cache:      cfg.cache,
			Logger:     cfg.logger,
		}),
	}

	path = filepath.Clean(path)
	doc, format, err := l.load(ctx, path, "", nil)
	if err != nil {
		return nil, err
	}
	return &Result{
		Document:   doc,
		SourcePath: path,
		Format:     format,
		Sources:    l.sources,
	}, nil
}

// fileLoader carries the state of one Load call.
type fileLoader struct {
	cfg      *loadConfig
	resolver *schemaloc.Resolver
	sources  []string
}

// load processes one file. chain holds the files importing it, outermost
// first.
func (l *fileLoader) load(ctx context.Context, path, importer string, chain []string) (map[string]any, Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if slices.Contains(chain, path) {
		return nil, "", &loaderrors.ImportError{Path: path, Importer: importer, IsCircular: true}
	}
	if len(chain) > l.cfg.maxImportDepth {
		return nil, "", &loaderrors.ResourceLimitError{
			ResourceType: "import_depth",
			Limit:        int64(l.cfg.maxImportDepth),
			Actual:       int64(len(chain)),
			Message:      "while importing " + path,
		}
	}

	format, err := formatFor(l.cfg.extensions, path)
	if err != nil {
		return nil, "", err
	}
	data, err := afero.ReadFile(l.cfg.fs, path)
	if err != nil {
		return nil, "", &loaderrors.ImportError{Path: path, Importer: importer, Cause: err}
	}
	if !slices.Contains(l.sources, path) {
		l.sources = append(l.sources, path)
	}
	l.cfg.logger.Debug("file loaded", "path", path, "format", string(format))

	doc, err := decode(format, data, l.cfg.xml)
	if err != nil {
		return nil, "", withPath(err, path)
	}
	if format == FormatXML {
		if err := l.normalizeXML(ctx, path, data, doc); err != nil {
			return nil, "", err
		}
	}
	for _, n := range l.cfg.normalizers {
		partial, err := n.Normalize(doc)
		if err != nil {
			return nil, "", withPath(err, path)
		}
		assign(doc, partial)
	}

	if err := l.imports(ctx, path, doc, append(slices.Clip(chain), path)); err != nil {
		return nil, "", err
	}
	return doc, format, nil
}

func (l *fileLoader) normalizeXML(ctx context.Context, path string, data []byte, doc map[string]any) error {
	if l.cfg.validator != nil {
		var rejected bool
		err := l.resolver.Validate(ctx, filepath.Dir(path), data, func(schema, xml []byte) error {
			err := l.cfg.validator(schema, xml)
			rejected = err != nil
			return err
		})
		if err != nil {
			if rejected {
				return err
			}
			return withPath(err, path)
		}
	}

	keys := l.cfg.keys()
	xmlNormalizers := append([]normalizer.XMLNormalizer{normalizer.DefaultXML{}}, l.cfg.xmlNormalizers...)
	for _, n := range xmlNormalizers {
		partial, err := n.NormalizeXML(doc, keys)
		if err != nil {
			return withPath(err, path)
		}
		assign(doc, partial)
	}
	return nil
}

// imports loads the files listed under the imports key of doc, in order,
// and merges each into doc. The list is read before the first merge.
func (l *fileLoader) imports(ctx context.Context, path string, doc map[string]any, chain []string) error {
	if l.cfg.noImports {
		return nil
	}
	raw, ok := doc[l.cfg.importsKey]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return &loaderrors.ImportError{Path: path, Message: l.cfg.importsKey + " must be a list of file paths"}
	}

	targets := make([]string, 0, len(list))
	dir := filepath.Dir(path)
	for _, entry := range list {
		target, ok := entry.(string)
		if !ok || target == "" {
			return &loaderrors.ImportError{Path: path, Message: "import entries must be non-empty strings"}
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		targets = append(targets, filepath.Clean(target))
	}

	for _, target := range targets {
		if !l.cfg.cycleError && slices.Contains(chain, target) {
			l.cfg.logger.Debug("circular import skipped", "from", path, "to", target)
			continue
		}
		l.cfg.logger.Debug("import resolved", "from", path, "to", target)
		child, _, err := l.load(ctx, target, path, chain)
		if err != nil {
			return err
		}
		merge.Recursive(doc, child)
	}
	return nil
}

// assign copies the top-level keys of partial into doc.
func assign(doc, partial map[string]any) {
	for k, v := range partial {
		doc[k] = v
	}
}

// withPath records path on errors raised while processing a file, unless
// they already name one.
func withPath(err error, path string) error {
	var (
		pe  *loaderrors.ParseError
		ae  *loaderrors.AttributeError
		sle *loaderrors.SchemaLocationError
	)
	switch {
	case errors.As(err, &pe):
		if pe.Path == "" {
			pe.Path = path
		}
	case errors.As(err, &ae):
		if ae.Path == "" {
			ae.Path = path
		}
	case errors.As(err, &sle):
		if sle.Path == "" {
			sle.Path = path
		}
	}
	return err
}

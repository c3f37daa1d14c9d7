package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyrhla/loader"
	"github.com/cyrhla/loader/normalizer"
	"github.com/cyrhla/loader/xmltree"
)

// LoadFlags contains flags for the load command
type LoadFlags struct {
	ImportsKey     string
	NoImports      bool
	CycleError     bool
	ExplicitRoot   bool
	Raw            bool
	AttrKey        string
	CharKey        string
	Container      bool
	Translator     bool
	Flatten        bool
	MaxImportDepth int
	Format         string
	Output         string
	Watch          bool
}

func newLoadCommand() *cobra.Command {
	flags := &LoadFlags{}

	cmd := &cobra.Command{
		Use:   "load [flags] <file>",
		Short: "Print a configuration file merged with its imports",
		Example: `  cfgload load config/app.yml
  cfgload load --container --flatten --format yaml config/services.xml
  cfgload load --no-imports config/app.json
  cfgload load --watch --output merged.json config/app.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.ImportsKey, "imports-key", loader.DefaultImportsKey, "document key listing files to import")
	f.BoolVar(&flags.NoImports, "no-imports", false, "do not follow imports")
	f.BoolVar(&flags.CycleError, "cycle-error", false, "fail on circular imports instead of skipping them")
	f.BoolVar(&flags.ExplicitRoot, "explicit-root", false, "keep the XML root element as the top-level key")
	f.BoolVar(&flags.Raw, "raw", false, "keep XML attribute and text values as strings")
	f.StringVar(&flags.AttrKey, "attr-key", xmltree.DefaultAttrKey, "key XML attributes are stored under")
	f.StringVar(&flags.CharKey, "char-key", xmltree.DefaultCharKey, "key XML text is stored under")
	f.BoolVar(&flags.Container, "container", false, "normalize XML parameters and services")
	f.BoolVar(&flags.Translator, "translator", false, "normalize XML translations")
	f.BoolVar(&flags.Flatten, "flatten", false, "flatten parameters, services, translations and routing into dotted keys")
	f.IntVar(&flags.MaxImportDepth, "max-import-depth", 0, "maximum import nesting (0 uses the default)")
	f.StringVarP(&flags.Format, "format", "f", FormatJSON, "output format (json|yaml)")
	f.StringVarP(&flags.Output, "output", "o", "", "write the document to a file instead of stdout")
	f.BoolVarP(&flags.Watch, "watch", "w", false, "reload when any loaded file changes")
	return cmd
}

// Options converts the flags into loader options.
func (f *LoadFlags) Options(logger loader.Logger) []loader.Option {
	opts := []loader.Option{
		loader.WithLogger(logger),
		loader.WithCycleError(f.CycleError),
		loader.WithExplicitRoot(f.ExplicitRoot),
		loader.WithAttrKey(f.AttrKey),
		loader.WithCharKey(f.CharKey),
		loader.WithMaxImportDepth(f.MaxImportDepth),
	}
	if f.NoImports {
		opts = append(opts, loader.WithoutImports())
	} else {
		opts = append(opts, loader.WithImportsKey(f.ImportsKey))
	}
	if f.Raw {
		opts = append(opts, loader.WithAttrValueProcessors(), loader.WithValueProcessors())
	}
	if f.Container {
		opts = append(opts, loader.WithXMLNormalizer(normalizer.ContainerXML{}))
	}
	if f.Translator {
		opts = append(opts, loader.WithXMLNormalizer(normalizer.TranslatorXML{}))
	}
	if f.Flatten {
		opts = append(opts, loader.WithNormalizer(normalizer.ContainerNormalizer{}))
	}
	return opts
}

func runLoad(cmd *cobra.Command, path string, flags *LoadFlags) error {
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	logger := commandLogger(cmd)
	opts := flags.Options(logger)

	render := func() (*loader.Result, error) {
		result, err := loader.LoadContext(cmd.Context(), path, opts...)
		if err != nil {
			return nil, err
		}
		data, err := MarshalDocument(result.Document, flags.Format)
		if err != nil {
			return nil, err
		}
		if flags.Output != "" {
			if err := ValidateOutputPath(flags.Output, result.Sources); err != nil {
				return nil, err
			}
		}
		if err := writeDocument(cmd.OutOrStdout(), flags.Output, data); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}
		logger.Info("document loaded", "path", result.SourcePath, "sources", len(result.Sources))
		return result, nil
	}

	result, err := render()
	if err != nil {
		return err
	}
	if !flags.Watch {
		return nil
	}

	return watchSources(cmd.Context(), result.Sources, func() ([]string, error) {
		result, err := render()
		if err != nil {
			return nil, err
		}
		return result.Sources, nil
	}, logger)
}

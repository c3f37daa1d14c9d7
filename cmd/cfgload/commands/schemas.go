package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cyrhla/loader"
	"github.com/cyrhla/loader/schemaloc"
)

// SchemasFlags contains flags for the schemas command
type SchemasFlags struct {
	Offline bool
}

func newSchemasCommand() *cobra.Command {
	flags := &SchemasFlags{}

	cmd := &cobra.Command{
		Use:   "schemas [flags] <file.xml>",
		Short: "Show the XSD schemas an XML file declares and where they resolve",
		Example: `  cfgload schemas config/services.xml
  cfgload schemas --offline config/services.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(cmd, args[0], flags)
		},
	}
	cmd.Flags().BoolVar(&flags.Offline, "offline", false, "list candidates without reading or fetching schemas")
	return cmd
}

func runSchemas(cmd *cobra.Command, path string, flags *SchemasFlags) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	decl, err := schemaloc.Find(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	dir := filepath.Dir(path)
	Writef(out, "%s (%d schema(s))\n", decl.Attribute, len(decl.Locations))

	if flags.Offline {
		for _, loc := range decl.Locations {
			Writef(out, "  %s\n", loc)
			if schemaloc.IsNetwork(loc) {
				for _, c := range schemaloc.Candidates(dir, loc) {
					Writef(out, "    local copy: %s\n", c)
				}
			}
		}
		return nil
	}

	resolver := schemaloc.NewResolver(schemaloc.Config{
		Fs:        afero.NewOsFs(),
		UserAgent: loader.UserAgent(),
		Logger:    commandLogger(cmd),
	})
	sources, err := resolver.Resolve(cmd.Context(), dir, decl.Locations)
	if err != nil {
		return err
	}
	for _, s := range sources {
		origin := "file " + s.Path
		if s.URL != "" {
			origin = "fetched " + s.URL
		}
		Writef(out, "  %s\n    %s (%d bytes)\n", s.Location, origin, len(s.Data))
	}
	return nil
}

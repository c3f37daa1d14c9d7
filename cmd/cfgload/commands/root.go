// Package commands provides the CLI commands for cfgload.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyrhla/loader"
)

// NewRootCommand builds the cfgload command tree.
func NewRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "cfgload",
		Short: "Load and merge JSON, YAML and XML configuration files",
		Long: `cfgload reads a configuration file, follows its imports across
JSON, YAML and XML files and prints the merged document.

Run 'cfgload load <file>' to print a merged document, or
'cfgload schemas <file.xml>' to see where its XSD schemas resolve.`,
		Version:       loader.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := ParseLevel(logLevel)
			if err != nil {
				return err
			}
			setLogger(cmd, NewLogger(cmd.ErrOrStderr(), level))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.SetVersionTemplate(fmt.Sprintf("cfgload %s (%s)\n", loader.Version(), loader.GoVersion()))

	root.AddCommand(newLoadCommand())
	root.AddCommand(newSchemasCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			Writef(cmd.OutOrStdout(), "cfgload %s\n", loader.Version())
			Writef(cmd.OutOrStdout(), "Go: %s\n", loader.GoVersion())
			Writef(cmd.OutOrStdout(), "User-Agent: %s\n", loader.UserAgent())
		},
	}
}

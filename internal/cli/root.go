package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the specmock CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "specmock",
		Short:         "Serve mock APIs from OpenAPI/Swagger documents",
		Long:          "specmock loads one or more OpenAPI/Swagger documents and serves synthetic, schema-conforming responses for every declared operation.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().String("log-format", "", "Log format (text|json)")

	for _, sub := range []*cobra.Command{newServeCmd(), newListCmd(), newExportCmd()} {
		cmd.AddCommand(sub)
	}

	// Convert flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	flagErr := func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	}
	cmd.SetFlagErrorFunc(flagErr)
	for _, sub := range cmd.Commands() {
		sub.SetFlagErrorFunc(flagErr)
	}

	return cmd
}

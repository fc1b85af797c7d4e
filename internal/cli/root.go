// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose    bool
	output     string
	configFile string
}

// NewRootCmd builds the taskdesk command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "taskdesk",
		Short: "taskdesk - a client for the task tracker API",
		Long: `taskdesk signs in to the task tracker backend and manages tasks and
categories, either from the command line or through a local web console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(opts.output)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatTable, "Output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default ./taskdesk.yaml or ~/.config/taskdesk/taskdesk.yaml)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newTasksCmd(opts),
		newCategoriesCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd := NewRootCmd()
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

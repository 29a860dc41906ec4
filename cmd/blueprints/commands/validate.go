package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/blueprints/cmd/blueprints/handlers"
)

// Validate returns the command that checks a blueprint file without
// deploying it.
func Validate() *cobra.Command {
	var configPath string
	var context map[string]string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a blueprint file",
		Long: `Load, compose and validate a blueprint file without touching any
cloud or cluster.

Examples:
  blueprints validate
  blueprints validate -c prod.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), cmd.OutOrStdout(), configPath, context)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", handlers.DefaultConfigFile, "Path to the blueprint file")
	cmd.Flags().StringToStringVar(&context, "context", nil, "Scope context values (key=value)")

	return cmd
}
